package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request and turns panics into a 500 response.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.String("request_id", requestID(c)),
				zap.Duration("latency", time.Since(start)),
			}

			if recovered := recover(); recovered != nil {
				logger.Error("Request panicked", append(fields, zap.Error(fmt.Errorf("%v", recovered)), zap.Stack("stack"))...)
				errorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				c.Abort()
				return
			}

			fields = append(fields, zap.Int("status", c.Writer.Status()))
			for _, err := range c.Errors {
				fields = append(fields, zap.Error(err.Err))
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				logger.Error("Request failed", fields...)
			case c.Writer.Status() >= http.StatusBadRequest:
				logger.Info("Request rejected", fields...)
			default:
				logger.Debug("Request handled", fields...)
			}
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = c.GetHeader("X-Request-Id")
	}
	return id
}
