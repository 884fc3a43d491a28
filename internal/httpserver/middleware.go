package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/service"
)

const userIDKey = "userID"

// RequestLogger attaches a request-scoped logger to the request context so
// handlers and services pick it up via logging.FromContext, then logs the
// completed request.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(
				"method", c.Request().Method,
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status
			dur := time.Since(start)

			switch {
			case err != nil || status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// RequireToken resolves the bearer token from the "token" header into the
// owning user id and stores it on the request context.
func RequireToken(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get("token")
			if token == "" {
				return echo.NewHTTPError(http.StatusForbidden, "No token or token did not match")
			}

			userID, err := auth.Validate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusForbidden, "No token or token did not match")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func currentUserID(c echo.Context) (string, error) {
	id, ok := c.Get(userIDKey).(string)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusForbidden, "unauthorized")
	}
	return id, nil
}
