package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, token)
}

func (h *AuthHTTP) Renew(c echo.Context) error {
	tokenID := c.Request().Header.Get("token")
	if tokenID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	token, err := h.Svc.Renew(c.Request().Context(), tokenID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, token)
}

func (h *AuthHTTP) Revoke(c echo.Context) error {
	tokenID := c.Request().Header.Get("token")
	if tokenID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	if err := h.Svc.Revoke(c.Request().Context(), tokenID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusOK)
}
