package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "snow-board.com/snow-board/internal/errors"
	"snow-board.com/snow-board/internal/ratelimit"
)

// RateLimiter keys on the client IP. A limiter backend failure lets the
// request through.
func RateLimiter(limiter ratelimit.Limiter, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if !ok {
				return apperrors.ErrRateLimited
			}

			return next(c)
		}
	}
}
