package server

import (
	"net/http"

	"github.com/ModawnAI/lotte-crm/internal/config"
	"github.com/ModawnAI/lotte-crm/internal/middleware"

	"github.com/labstack/echo/v4"
)

// /api配下にルートを持つhandler
type RouteRegistrar interface {
	RegisterRoutes(api *echo.Group)
}

func registerRoutes(e *echo.Echo, cfg config.Config, opts Options, hs []RouteRegistrar) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	api := e.Group("/api")
	api.Use(middleware.AuthJWT(cfg))
	for _, h := range hs {
		h.RegisterRoutes(api)
	}
}
