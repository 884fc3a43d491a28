package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/service"
)

type OrderHTTP struct {
	Svc *service.CheckoutService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var card service.CardData
	if err := c.Bind(&card); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	orderID, err := h.Svc.Checkout(ctx, userID, card)
	if err != nil {
		l.Warn("checkout_error", "error", err)
		return httpError(err)
	}

	l.Info("checkout_success", "order_id", orderID)
	return c.JSON(http.StatusCreated, echo.Map{"order_id": orderID})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}
