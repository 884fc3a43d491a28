package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/pizza_shop/internal/service"
)

type Deps struct {
	Users    *service.UserService
	Auth     *service.AuthService
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Menu     service.Menu
	Log      *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(RequestLogger(log))

	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	menuHandler := &MenuHTTP{Menu: d.Menu}
	v1.GET("/menu", menuHandler.GetMenu)

	userHandler := &UserHTTP{Svc: d.Users}
	authHandler := &AuthHTTP{Svc: d.Auth}
	v1.POST("/users", userHandler.Register)
	v1.POST("/tokens", authHandler.Login)
	v1.PUT("/tokens", authHandler.Renew)
	v1.DELETE("/tokens", authHandler.Revoke)

	authed := v1.Group("", RequireToken(d.Auth))
	authed.GET("/users/me", userHandler.Get)
	authed.PUT("/users/me", userHandler.Update)
	authed.DELETE("/users/me", userHandler.Delete)

	cartHandler := &CartHTTP{Svc: d.Carts}
	authed.GET("/cart", cartHandler.GetCart)
	authed.POST("/cart", cartHandler.AddItems)
	authed.DELETE("/cart", cartHandler.RemoveItems)

	orderHandler := &OrderHTTP{Svc: d.Checkout}
	authed.POST("/checkout", orderHandler.Checkout)
	authed.GET("/orders/:id", orderHandler.GetOrder)
}
