package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载统计路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/stats/dashboard", h.dashboard)
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, d)
}
