package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestLogger tags each request with an id, stores a request-scoped entry
// under "logger" and logs one line when the handler returns. Health checks
// log at debug.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)
		c.Set(loggerKey, l.WithField("request_id", id))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		fields := logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       route,
			"status":     status,
			"latency_ms": time.Since(began).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields["user_id"] = uid
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry := l.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		case route == "/ping":
			entry.Debug("request")
		default:
			entry.Info("request")
		}
	}
}

// Logger returns the request-scoped entry, or fallback outside RequestLogger.
func Logger(c *gin.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if e, ok := v.(*logrus.Entry); ok {
			return e
		}
	}
	if fallback == nil {
		return logrus.StandardLogger()
	}
	return fallback
}
