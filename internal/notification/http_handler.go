package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
	"github.com/SmartFleet/SmartFleet/internal/common/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载通知路由，全部只操作当前登录用户的数据。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/notifications")
	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.POST("/:id/read", h.markRead)
	g.POST("/read-all", h.markAllRead)
}

type notificationResp struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt int64  `json:"created_at"`
}

func toAPI(n *Notification) *notificationResp {
	if n == nil {
		return nil
	}
	return &notificationResp{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Unix(),
	}
}

func callerID(c *gin.Context) (string, bool) {
	info, ok := middleware.AuthFromContext(c)
	if !ok || info.Subject == "" {
		httpx.Error(c, apperr.Unauthorized("login required"))
		return "", false
	}
	return info.Subject, true
}

func (h *Handler) list(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	offset, limit := httpx.Pagination(c)
	onlyUnread := c.Query("unread") == "true"
	ns, total, err := h.svc.ListByUser(c.Request.Context(), uid, onlyUnread, offset, limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*notificationResp, 0, len(ns))
	for i := range ns {
		n := ns[i]
		out = append(out, toAPI(&n))
	}
	httpx.OK(c, gin.H{"notifications": out, "total": total})
}

func (h *Handler) unreadCount(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	n, err := h.svc.CountUnread(c.Request.Context(), uid)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"unread": n})
}

func (h *Handler) markRead(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), uid); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"read": true})
}

func (h *Handler) markAllRead(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.MarkAllRead(c.Request.Context(), uid); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"read": true})
}
