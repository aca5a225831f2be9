// Package logger owns the process-wide zap logger and its per-request
// variant carried in the echo context.
package logger

import (
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const ContextKey = "logger"

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init builds the process logger: JSON output in production, console output
// everywhere else.
func Init(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	mu.Lock()
	global = logger
	mu.Unlock()
	return logger
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// FromContext returns the request-scoped logger when middleware has attached
// one, falling back to the process logger.
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(ContextKey).(*zap.Logger); ok {
		return logger
	}
	return L()
}
