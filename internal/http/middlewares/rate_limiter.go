package middleware

import (
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	apperrors "priority-tasks.com/priority-tasks/internal/errors"
	"priority-tasks.com/priority-tasks/internal/limiter"
)

// RateLimiter admits requests per client IP. When the limiter backend fails
// the request is let through.
func RateLimiter(l limiter.Limiter, logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()

			allowed, err := l.Allow(c.Request().Context(), key)
			if err != nil {
				logger.WithError(err).WithField("client", key).Warn("rate limiter unavailable")
				return next(c)
			}
			if !allowed {
				return apperrors.ErrRateLimited
			}

			return next(c)
		}
	}
}
