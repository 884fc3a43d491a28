package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

type cartItemsRequest struct {
	Items []int `json:"items"`
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	cart := h.Svc.GetCart(c.Request().Context(), userID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItems(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req cartItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddItems(ctx, userID, req.Items)
	if err != nil {
		logging.FromContext(ctx).Warn("add_items_error", "handler", "cart.add", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItems(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req cartItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.RemoveItems(ctx, userID, req.Items)
	if err != nil {
		logging.FromContext(ctx).Warn("remove_items_error", "handler", "cart.remove", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}
