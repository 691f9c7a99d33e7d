// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/logger"
)

// RequestLogger returns a middleware that logs request start and completion
// with a request id for tracing. Logs go through the configured global logger
// so they honor the level and format set at startup.
func RequestLogger() gin.HandlerFunc {
	httpLog := logger.HTTP()

	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		httpLog.Info("Request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		logLevel := httpLog.Info
		if status >= 400 {
			logLevel = httpLog.Error
		} else if status >= 300 {
			logLevel = httpLog.Warn
		}

		logLevel("Request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}
