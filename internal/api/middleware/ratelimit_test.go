package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over limit must be rejected")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	if !rl.Allow("1.1.1.1") {
		t.Fatal("first client should be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Error("second client must have its own counter")
	}
}

func TestRateLimiter_WindowRollover(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Stop()

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request inside window must be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Error("request after window rollover must be allowed again")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	h := rl.Middleware()(next)

	do := func(method string) (*echo.HTTPError, int) {
		req := httptest.NewRequest(method, "/", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := h(c)
		if err != nil {
			he, _ := err.(*echo.HTTPError)
			return he, 0
		}
		return nil, rec.Code
	}

	if he, code := do(http.MethodGet); he != nil || code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %v/%d", he, code)
	}
	if he, _ := do(http.MethodGet); he == nil || he.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %v", he)
	}
	// Preflights are never throttled.
	if he, code := do(http.MethodOptions); he != nil || code != http.StatusOK {
		t.Errorf("OPTIONS must bypass the limiter, got %v/%d", he, code)
	}
}
