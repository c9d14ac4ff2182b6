package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := log.Fields{
				"method":     v.Method,
				"path":       v.URIPath,
				"status":     v.Status,
				"latency_ms": float64(v.Latency) / float64(time.Millisecond),
			}
			if id, ok := c.Get("view_id").(string); ok && id != "" {
				fields["view_id"] = id
			}

			entry := logger.WithFields(fields)
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
