package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		args := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}

		if status >= http.StatusInternalServerError {
			if err := c.Errors.Last(); err != nil {
				args = append(args, "error", err.Err)
			}
			s.logger.Error(ctx, "request error", args...)
			return
		}
		s.logger.Info(ctx, "request", args...)
	}
}
