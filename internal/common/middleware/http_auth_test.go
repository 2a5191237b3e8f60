package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/auth"
	"github.com/SmartFleet/SmartFleet/internal/common/config"
	"github.com/gin-gonic/gin"
)

func newAuthRouter(t *testing.T, cfg config.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(cfg, nil), RBAC(cfg))
	r.GET("/api/v1/admin-only", func(c *gin.Context) {
		ai, ok := AuthFromContext(c)
		if !ok {
			t.Fatalf("missing auth info in ctx")
		}
		c.JSON(http.StatusOK, gin.H{"subject": ai.Subject})
	})
	r.GET("/api/v1/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestJWTAuthAndRBAC(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "smartfleet",
		Audience:  "smartfleet",
		RBAC: map[string][]string{
			"GET /api/v1/admin-only": {"admin"},
		},
	}
	r := newAuthRouter(t, cfg)

	adminToken, _, err := auth.GenerateAccessToken(cfg, "u-1", []string{"user", "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected allow, got status=%d body=%s", w.Code, w.Body.String())
	}

	// 换一个只有 user 角色的 token，应被 RBAC 拒绝
	userToken, _, err := auth.GenerateAccessToken(cfg, "u-2", []string{"user"}, time.Hour)
	if err != nil {
		t.Fatalf("sign token2: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	// 未配置角色要求的路由：有合法 token 即放行
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/open", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// 无 token 拒绝
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/open", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthPublicRoute(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:     true,
		JWTSecret:   "test-secret",
		PublicPaths: []string{"GET /api/v1/open"},
	}
	r := newAuthRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/open", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected public route to bypass auth, got %d", w.Code)
	}
}
