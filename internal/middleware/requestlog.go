package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/HCD2016-hash/shippo-missive/internal/logger"
)

type RequestLogger struct {
	log *logger.Logger
}

func NewRequestLogger(log *logger.Logger) *RequestLogger {
	middlewareLogger := log.With("Middleware", "RequestLogger")
	return &RequestLogger{log: middlewareLogger}
}

// Handle tags every request with an id and writes one access-log line after
// the handler runs.
func (m *RequestLogger) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Writer.Header().Set("X-Request-ID", requestID)
		start := time.Now()

		c.Next()

		m.log.Info("Request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
