package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cb := NewCircuitBreaker("test", 2, time.Minute)

	hits := 0
	r := gin.New()
	r.Use(Breaker(cb))
	r.GET("/boom", func(c *gin.Context) {
		hits++
		c.String(http.StatusInternalServerError, "boom")
	})

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	// 连续失败到阈值，熔断开启
	do()
	do()
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	// 熔断期间快速失败，不再打到 handler
	code := do()
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", code)
	}
	if hits != 2 {
		t.Fatalf("handler hits = %d, want 2", hits)
	}
}

func TestBreakerNilPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Breaker(nil))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
