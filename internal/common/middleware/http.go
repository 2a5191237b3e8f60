package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/auth"
	"github.com/SmartFleet/SmartFleet/internal/common/config"
	"github.com/SmartFleet/SmartFleet/internal/common/logger"
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const authInfoKey = "smartfleet/auth-info"

// AuthInfo 从 JWT 中解析出的最小用户信息（放入请求上下文，供业务侧使用）。
type AuthInfo struct {
	Subject string   // 用户 ID
	Roles   []string // 角色列表（RBAC）
}

// AuthFromContext 从 gin.Context 中取出鉴权信息。
func AuthFromContext(c *gin.Context) (AuthInfo, bool) {
	v, ok := c.Get(authInfoKey)
	if !ok {
		return AuthInfo{}, false
	}
	ai, ok := v.(AuthInfo)
	return ai, ok
}

// Recovery 防止 panic 直接把进程打崩，并记录栈信息。
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Errorf("panic in http route=%s err=%v stack=%s", routeKey(c), r, string(debug.Stack()))
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"message": "internal error",
				})
			}
		}()
		c.Next()
	}
}

// AccessLog 记录每个 HTTP 请求的耗时/状态。
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		cost := time.Since(start)

		if log == nil {
			return
		}
		fields := map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
			"cost":   cost.String(),
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			fields["errors"] = c.Errors.String()
			log.WithFields(fields).Warn("http request failed")
		} else {
			log.WithFields(fields).Info("http request ok")
		}
	}
}

// Tracing 基于 OpenTracing 的最小 server middleware：
// - 从请求头里提取 span context（uber-trace-id / traceparent 等，取决于上游注入格式）
// - 创建 server span，并注入到 request context，方便业务侧 StartSpanFromContext 使用
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tracer := opentracing.GlobalTracer()

		var parent opentracing.SpanContext
		if sc, err := tracer.Extract(opentracing.HTTPHeaders,
			opentracing.HTTPHeadersCarrier(c.Request.Header)); err == nil {
			parent = sc
		}

		operation := routeKey(c)
		var span opentracing.Span
		if parent != nil {
			span = tracer.StartSpan(operation, ext.RPCServerOption(parent))
		} else {
			span = tracer.StartSpan(operation)
		}
		defer span.Finish()

		ext.SpanKindRPCServer.Set(span)
		ext.HTTPMethod.Set(span, c.Request.Method)
		ext.HTTPUrl.Set(span, c.Request.URL.Path)
		ext.Component.Set(span, "http")
		if serviceName != "" {
			span.SetTag("service", serviceName)
		}

		c.Request = c.Request.WithContext(opentracing.ContextWithSpan(c.Request.Context(), span))
		c.Next()

		ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
		if c.Writer.Status() >= http.StatusInternalServerError {
			ext.Error.Set(span, true)
		}
	}
}

// JWTAuth 用于 JWT 鉴权：
// - 从 `authorization: Bearer <token>` 读取 token
// - 校验签名与标准字段，解析结果写入请求上下文
func JWTAuth(cfg config.AuthConfig, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || isPublicRoute(cfg.PublicPaths, routeKey(c)) {
			c.Next()
			return
		}
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			if log != nil {
				log.Warn("auth enabled but jwt_secret is empty")
			}
			abortUnauthorized(c, "auth not configured")
			return
		}

		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			abortUnauthorized(c, "missing authorization")
			return
		}
		tokenStr := raw
		if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
			tokenStr = strings.TrimSpace(tokenStr[len("bearer "):])
		}
		if tokenStr == "" {
			abortUnauthorized(c, "invalid authorization")
			return
		}

		claims, err := auth.ParseAccessToken(cfg, tokenStr)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(authInfoKey, AuthInfo{
			Subject: claims.Subject,
			Roles:   claims.Roles,
		})
		c.Next()
	}
}

// RBAC 基于 route->roles 的简单 RBAC：
// - 若 cfg.RBAC["METHOD /path"] 存在且非空，则要求 token roles 与之有交集
// - 若该路由未配置要求角色，则默认放行（即“只鉴权，不限权”）
func RBAC(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || isPublicRoute(cfg.PublicPaths, routeKey(c)) {
			c.Next()
			return
		}

		required := cfg.RBAC[routeKey(c)]
		if len(required) == 0 {
			c.Next()
			return
		}

		ai, ok := AuthFromContext(c)
		if !ok {
			abortUnauthorized(c, "missing auth context")
			return
		}
		if hasAnyRole(ai.Roles, required) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    http.StatusForbidden,
			"message": "permission denied",
		})
	}
}

// routeKey 返回 "METHOD /path/template" 形式的路由标识（RBAC/公开路径的 key）。
func routeKey(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": msg,
	})
}

func hasAnyRole(got, required []string) bool {
	if len(got) == 0 || len(required) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(got))
	for _, r := range got {
		r = strings.TrimSpace(strings.ToLower(r))
		if r == "" {
			continue
		}
		set[r] = struct{}{}
	}
	for _, r := range required {
		r = strings.TrimSpace(strings.ToLower(r))
		if r == "" {
			continue
		}
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}

func isPublicRoute(public []string, route string) bool {
	if route == "" || len(public) == 0 {
		return false
	}
	for _, p := range public {
		if strings.TrimSpace(p) == route {
			return true
		}
	}
	return false
}
