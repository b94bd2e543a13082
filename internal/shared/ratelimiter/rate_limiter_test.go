package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(rps float64, burst int) (*RateLimiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rps, burst)
	rl.now = clk.now
	rl.lastSweep = clk.t
	return rl, clk
}

func TestRateLimiter_Allow_BurstThenRefill(t *testing.T) {
	t.Parallel()

	rl, clk := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "burst exhausted")

	clk.advance(time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "one token refilled")
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_Allow_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(1, 1)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	t.Parallel()

	rl, clk := newTestLimiter(1, 1)
	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.size())

	clk.advance(idleTTL)
	rl.Allow("c")
	assert.Equal(t, 1, rl.size())
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := newTestLimiter(1, 2)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"error":"too many requests","code":"rate_limited","retryable":true}`, w.Body.String())
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
