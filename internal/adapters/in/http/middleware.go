package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"orders/internal/pkg/errs"
	"orders/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// echoValidator adapts validator/v10 to echo.Validator.
type echoValidator struct {
	validate *validator.Validate
}

func newEchoValidator() *echoValidator {
	return &echoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

// openapiValidation rejects requests that do not match the API description.
// Routes outside of it (health, metrics, docs) pass through untouched.
func openapiValidation(router routers.Router) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    &openapi3filter.Options{MultiError: false},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return c.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: validationMessage(err),
				})
			}
			return next(c)
		}
	}
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return fmt.Sprintf("parameter %q is invalid: %s", reqErr.Parameter.Name, reqErr.Err)
		}
		if reqErr.RequestBody != nil {
			return fmt.Sprintf("request body is invalid: %s", reqErr.Err)
		}
	}
	return err.Error()
}

// recordMetrics feeds the HTTP instruments. Paths are recorded as route
// templates so ids do not blow up label cardinality.
func recordMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

// errorHandler renders echo errors (unknown routes, bad params) in the
// Error shape used by the handlers.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			message = fmt.Sprint(he.Message)
		case errs.IsValidation(err):
			code = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, errs.ErrObjectNotFound):
			code = http.StatusNotFound
			message = orderNotFoundMessage
		default:
			logger.ErrorContext(c.Request().Context(), "unhandled error", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, Error{Code: code, Message: message})
	}
}
