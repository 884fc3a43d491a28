package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/service"
)

type UserHTTP struct {
	Svc *service.UserService
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	TosAgreement bool   `json:"tos_agreement"`
}

// toResponse strips the password hash; it never leaves the server.
func toResponse(user *models.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		TosAgreement: user.TosAgreement,
	}
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req service.UserInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toResponse(user))
}

func (h *UserHTTP) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.Get(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toResponse(user))
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.UserInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Update(ctx, userID, req)
	if err != nil {
		logging.FromContext(ctx).Warn("update_user_error", "handler", "user.update", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toResponse(user))
}

func (h *UserHTTP) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
