package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedHandler(rl *RateLimiter) echo.HandlerFunc {
	return rl.Middleware()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func doRequest(e *echo.Echo, handler echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 4))

	for i := 0; i < 4; i++ {
		rec := doRequest(e, handler, "192.168.1.2:12345")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be within the burst", i)
	}

	rec := doRequest(e, handler, "192.168.1.2:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestRateLimiter_SeparateBudgetsPerIP(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 1))

	assert.Equal(t, http.StatusOK, doRequest(e, handler, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, handler, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, doRequest(e, handler, "10.0.0.2:1000").Code)
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	current := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	rl.allow("10.0.0.1")
	current = current.Add(2 * time.Minute)
	rl.allow("10.0.0.2")
	current = current.Add(2 * time.Minute)

	assert.Equal(t, 1, rl.evictIdle())
	assert.Equal(t, 1, rl.size())
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rl.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRateLimiter_Concurrency(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(NewRateLimiter(1, 10))

	var mu sync.Mutex
	codes := map[int]int{}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := doRequest(e, handler, "172.16.0.1:5555")
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, codes[http.StatusOK])
	assert.Equal(t, 10, codes[http.StatusTooManyRequests])
}
