package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/service"
)

type MenuHTTP struct {
	Menu service.Menu
}

func (h *MenuHTTP) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Menu.Items(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("menu_error", "handler", "menu.get", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}
