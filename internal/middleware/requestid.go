package middleware

import (
	"time"

	"github.com/atelierhq/atelier-api/internal/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with a unique id and attaches a request-scoped
// logger carrying it.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response().Header().Set(RequestIDHeader, requestID)

		c.Set(logger.ContextKey, logger.L().With(zap.String("request_id", requestID)))
		return next(c)
	}
}

// RequestLogger writes one structured line per completed request.
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		logger.FromContext(c).Info("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
