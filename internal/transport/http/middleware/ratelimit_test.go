package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/transport/http/middleware"
)

func rateLimitedRouter(ctx context.Context, perSecond, burst int) *gin.Engine {
	r := gin.New()
	r.GET("/ping", middleware.RateLimit(ctx, perSecond, burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func ping(r *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksOverBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := rateLimitedRouter(ctx, 1, 3)

	for i := 0; i < 3; i++ {
		if code := ping(r, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := ping(r, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("over-burst request: status = %d, want 429", code)
	}
	// Buckets are per IP: a different client is unaffected.
	if code := ping(r, "10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("other client: status = %d, want 200", code)
	}
}

func TestRateLimitEvictionStopsOnCancel(t *testing.T) {
	before := runtime.NumGoroutine()
	ctx, cancel := context.WithCancel(context.Background())
	_ = middleware.RateLimit(ctx, 1, 1)
	cancel()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("eviction goroutine still running after context cancellation")
}
