package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	middleware "snow-board.com/snow-board/internal/http/middlewares"
	"snow-board.com/snow-board/internal/metrics"
	"snow-board.com/snow-board/internal/ratelimit"
)

type RouteOptions struct {
	APIPrefix    string
	SitePassword string
	Limiter      ratelimit.Limiter
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

func Register(e *echo.Echo, h *Handler, opts RouteOptions) {
	e.HTTPErrorHandler = NewErrorHandler(opts.Logger)

	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.Recover())
	if opts.Metrics != nil {
		e.Use(middleware.Metrics(opts.Metrics))
	}
	e.Use(middleware.SiteGate(opts.SitePassword, healthPath, metricsPath))
	if opts.Limiter != nil {
		e.Use(middleware.RateLimiter(opts.Limiter, opts.Logger))
	}

	e.GET(healthPath, h.Health)
	if opts.Metrics != nil {
		e.GET(metricsPath, echo.WrapHandler(promhttp.HandlerFor(opts.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := e.Group(opts.APIPrefix)

	api.GET("/gate", h.Gate)
	api.GET("/estimate", h.Estimate)

	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/mine", h.ListMyTasks)
	api.POST("/tasks", h.CreateTask)
	api.POST("/tasks/:id/take", h.TakeTask)
	api.POST("/tasks/:id/clear-taken", h.ClearTaken)
	api.DELETE("/tasks/:id", h.DeleteTask)
}
