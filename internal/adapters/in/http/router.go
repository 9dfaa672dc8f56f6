package http

import (
	"context"
	"log/slog"
	"net/http"

	"orders/internal/pkg/logger"
	"orders/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Options configures the echo instance built by NewEcho.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs GET /metrics. The route is not registered when nil.
	Gatherer prometheus.Gatherer
}

// NewEcho builds the HTTP entrypoint: API routes validated against the
// embedded OpenAPI description plus /health, /metrics and /docs.
func NewEcho(ctx context.Context, si ServerInterface, opts Options) (*echo.Echo, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	router, err := newRouter(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newEchoValidator()
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(opts.Logger))
	e.Use(recordMetrics(opts.Metrics))
	e.Use(openapiValidation(router))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/docs/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, si)

	return e, nil
}
