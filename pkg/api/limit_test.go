package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(rate.Limit(0.001), 2)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/ideas/x/upvote", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("192.0.2.1:1000"))
	assert.Equal(t, http.StatusOK, hit("192.0.2.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("192.0.2.1:1002"))
	assert.Equal(t, http.StatusOK, hit("192.0.2.2:1000"))
}

func TestIPRateLimiterDropsIdleVisitors(t *testing.T) {
	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rl := NewIPRateLimiter(rate.Limit(0.001), 1)
	rl.now = func() time.Time { return clock }
	rl.lastSweep = clock

	first := rl.Limiter("192.0.2.1")
	rl.Limiter("192.0.2.2")
	assert.Equal(t, 2, rl.size())

	clock = clock.Add(VisitorIdle / 2)
	assert.Same(t, first, rl.Limiter("192.0.2.1"))

	clock = clock.Add(VisitorIdle)
	rl.Limiter("192.0.2.3")
	assert.Equal(t, 2, rl.size())
	assert.Contains(t, rl.visitors, "192.0.2.1")
	assert.NotContains(t, rl.visitors, "192.0.2.2")

	clock = clock.Add(2 * VisitorIdle)
	rl.Limiter("192.0.2.4")
	assert.Equal(t, 1, rl.size())
}
