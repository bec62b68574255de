package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/condomarket/backend/internal/handlers"
	"github.com/condomarket/backend/internal/service/token"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	CatalogHandler *handlers.CatalogHandler
	Tokens         *token.Service
	// StaticDir serves uploaded images when the local asset backend is
	// active; empty for the s3 backend.
	StaticDir string
}

func Register(e *echo.Echo, d *Deps) {
	// the frontend is served from arbitrary origins and sends credentials
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:                             []string{"*"},
		AllowCredentials:                         true,
		UnsafeWildcardOriginWithAllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, echo.HeaderXRequestedWith,
		},
	}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.StaticDir != "" {
		e.Static("/images", d.StaticDir)
	}

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/register", d.AuthHandler.Register)

	products := e.Group("/products", d.Tokens.Middleware())
	products.GET("", d.ProductHandler.List)
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/condominio/:condominio", d.ProductHandler.ByCondominio)
	products.POST("", d.ProductHandler.Create)
	products.PUT("/:id", d.ProductHandler.Update)
	products.DELETE("/:id", d.ProductHandler.Delete)

	orders := e.Group("/orders", d.Tokens.Middleware())
	orders.POST("", d.OrderHandler.Create)
	orders.GET("/user/:userId", d.OrderHandler.ListByUser)
	orders.PUT("/:id", d.OrderHandler.Update)
	orders.DELETE("/:id", d.OrderHandler.Delete)

	e.GET("/categories", d.CatalogHandler.ListCategories)
}
