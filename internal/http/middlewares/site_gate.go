package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	apperrors "snow-board.com/snow-board/internal/errors"
)

const SitePasswordHeader = "X-Site-Password"

// SiteGate requires the shared site passphrase on every request except the
// listed paths. An empty password disables the gate.
func SiteGate(password string, exempt ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if password == "" {
			return next
		}

		return func(c echo.Context) error {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return next(c)
			}

			got := c.Request().Header.Get(SitePasswordHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(password)) != 1 {
				return apperrors.ErrSiteLocked
			}

			return next(c)
		}
	}
}
