package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	apperrors "snow-board.com/snow-board/internal/errors"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) {
	return false, nil
}

func run(mw echo.MiddlewareFunc, req *http.Request) error {
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())
	return mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	err := run(RateLimiter(failingLimiter{}, zap.NewNop()), httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.NoError(t, err)
}

func TestRateLimiter_Deny(t *testing.T) {
	err := run(RateLimiter(denyLimiter{}, zap.NewNop()), httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
}

func TestSiteGate(t *testing.T) {
	gate := SiteGate("sne", "/health")

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	assert.ErrorIs(t, run(gate, req), apperrors.ErrSiteLocked)

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set(SitePasswordHeader, "sne")
	assert.NoError(t, run(gate, req))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	assert.NoError(t, run(gate, req))
}

func TestSiteGate_DisabledWithoutPassword(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	assert.NoError(t, run(SiteGate(""), req))
}
