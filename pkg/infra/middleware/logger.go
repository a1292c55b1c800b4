package middleware

import (
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
)

// LoggerConfig configures the access log.
type LoggerConfig struct {
	// SkipPaths are matched exactly against the request path.
	SkipPaths []string
}

// Logger logs every request except /healthz.
func Logger() gin.HandlerFunc {
	return LoggerWithConfig(LoggerConfig{SkipPaths: []string{"/healthz"}})
}

// LoggerWithConfig writes one access line per request through the request
// scoped logger, at error level for 5xx and warn level for 4xx.
func LoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	skip := slices.Clone(config.SkipPaths)

	return func(c *gin.Context) {
		if slices.Contains(skip, c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		took := time.Since(start)

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"client_ip", c.ClientIP(),
			"latency_ms", took.Milliseconds(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		log := applogger.GetLogger(c.Request.Context())
		switch {
		case status >= 500:
			log.Errorw("http request", kv...)
		case status >= 400:
			log.Warnw("http request", kv...)
		default:
			log.Infow("http request", kv...)
		}
	}
}
