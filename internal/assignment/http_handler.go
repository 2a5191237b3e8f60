package assignment

import (
	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	mgr   *Manager
	store Store
}

func NewHandler(mgr *Manager, store Store) *Handler {
	return &Handler{mgr: mgr, store: store}
}

// RegisterRoutes 挂载派车路由。
// 车辆侧的“编辑司机”入口也在这里（PUT /vehicles/:id/driver）。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/assignments")
	g.POST("", h.assign)
	g.POST("/unassign", h.unassign)
	g.GET("", h.list)

	api.PUT("/vehicles/:id/driver", h.reassign)
}

type assignReq struct {
	DriverID  string `json:"driver_id" binding:"required"`
	VehicleID string `json:"vehicle_id" binding:"required"`
}

type unassignReq struct {
	DriverID string `json:"driver_id" binding:"required"`
}

type reassignReq struct {
	DriverID string `json:"driver_id"` // 为空表示仅解绑
}

type assignmentResp struct {
	ID        string `json:"id"`
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
	Status    string `json:"status"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func toAPI(a *Assignment) *assignmentResp {
	if a == nil {
		return nil
	}
	var endDate int64
	if a.EndDate != nil {
		endDate = a.EndDate.Unix()
	}
	return &assignmentResp{
		ID:        a.ID,
		DriverID:  a.DriverID,
		VehicleID: a.VehicleID,
		Status:    string(a.Status),
		StartDate: a.StartDate.Unix(),
		EndDate:   endDate,
		CreatedAt: a.CreatedAt.Unix(),
		UpdatedAt: a.UpdatedAt.Unix(),
	}
}

func (h *Handler) assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	a, err := h.mgr.Assign(c.Request.Context(), req.DriverID, req.VehicleID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(a))
}

func (h *Handler) unassign(c *gin.Context) {
	var req unassignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	a, err := h.mgr.Unassign(c.Request.Context(), req.DriverID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(a))
}

func (h *Handler) reassign(c *gin.Context) {
	var req reassignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	a, err := h.mgr.Reassign(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(a))
}

func (h *Handler) list(c *gin.Context) {
	offset, limit := httpx.Pagination(c)
	as, total, err := h.store.List(
		c.Request.Context(),
		c.Query("driver_id"),
		c.Query("vehicle_id"),
		Status(c.Query("status")),
		offset, limit,
	)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*assignmentResp, 0, len(as))
	for i := range as {
		a := as[i]
		out = append(out, toAPI(&a))
	}
	httpx.OK(c, gin.H{"assignments": out, "total": total})
}
