package setting

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
)

// Handler 配置项读写。写入路由应通过 RBAC 限制为 admin。
type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes 挂载配置项路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/settings")
	g.GET("", h.list)
	g.GET("/:key", h.get)
	g.PUT("/:key", h.upsert)
}

type upsertSettingReq struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

type settingResp struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toAPI(s *Setting) *settingResp {
	if s == nil {
		return nil
	}
	return &settingResp{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt.Unix(),
	}
}

func (h *Handler) list(c *gin.Context) {
	ss, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*settingResp, 0, len(ss))
	for i := range ss {
		s := ss[i]
		out = append(out, toAPI(&s))
	}
	httpx.OK(c, gin.H{"settings": out})
}

func (h *Handler) get(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	s, err := h.repo.FindByKey(c.Request.Context(), key)
	if err == gorm.ErrRecordNotFound {
		httpx.Error(c, apperr.NotFound("setting not found: %s", key))
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(s))
}

func (h *Handler) upsert(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		httpx.Error(c, apperr.Validation("key required"))
		return
	}
	var req upsertSettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	s := &Setting{Key: key, Value: req.Value, Description: req.Description}
	if err := h.repo.Upsert(c.Request.Context(), s); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(s))
}
