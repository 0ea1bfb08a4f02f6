package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stock-board/internal/board/dto"
	"stock-board/internal/board/usecase"
	"stock-board/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the transport settings of the board API.
type RouterConfig struct {
	AllowOrigins       []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	DefaultPageSize    int
}

// NewRouter builds the Echo instance with middleware, health check, docs and
// the post routes mounted under /api/posts.
func NewRouter(useCases *usecase.PostUseCases, pinger Pinger, cfg RouterConfig, appLogger *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = errorHandler(appLogger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(appLogger))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	if cfg.RateLimitPerSecond > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimitPerSecond),
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: 3 * time.Minute,
		})
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool { return c.Path() == "/healthz" },
			Store:   store,
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			},
		}))
	}

	e.GET("/healthz", healthHandler(pinger))
	e.GET("/swagger/*", swagger.WrapHandler)

	postHandler := NewPostHandler(useCases, cfg.DefaultPageSize, appLogger)
	postHandler.RegisterRoutes(e.Group("/api/posts"))

	return e
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the API and its database are reachable
// @Tags health
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /healthz [get]
func healthHandler(pinger Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			return errorJSON(c, http.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	}
}

// errorHandler renders every echo error, including unknown routes and
// binding failures, with the same envelope the handlers use.
func errorHandler(appLogger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := err.Error()
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		} else {
			appLogger.Error("Unhandled error", logger.ErrorField(err), logger.StringField("path", c.Path()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = errorJSON(c, status, message)
		}
		if err != nil {
			appLogger.Error("Failed to write error response", logger.ErrorField(err))
		}
	}
}

func requestLogger(appLogger *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				logger.StringField("method", v.Method),
				logger.StringField("uri", v.URI),
				logger.IntField("status", v.Status),
				logger.Field("latency", v.Latency),
				logger.StringField("request_id", v.RequestID),
			}
			if v.Error != nil {
				appLogger.Warn("Request failed", append(fields, logger.ErrorField(v.Error))...)
				return nil
			}
			appLogger.Info("Request handled", fields...)
			return nil
		},
	})
}
