package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/service"
)

// httpError maps a service error to the HTTP edge. Full detail stays in the
// logs; the client only sees the generic message for the class.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCardData),
		errors.Is(err, service.ErrNoValidItems),
		errors.Is(err, service.ErrExpired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "No token or token did not match")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrPaymentFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "payment failed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
