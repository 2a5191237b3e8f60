package maintenance

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载维保路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/maintenance")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type createRecordReq struct {
	VehicleID   string `json:"vehicle_id" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
	CostCents   int64  `json:"cost_cents"`
	OdometerKm  int    `json:"odometer_km"`
	PerformedAt int64  `json:"performed_at" binding:"required"`
}

type updateRecordReq struct {
	Type        *string `json:"type"`
	Description *string `json:"description"`
	CostCents   *int64  `json:"cost_cents"`
	OdometerKm  *int    `json:"odometer_km"`
	PerformedAt *int64  `json:"performed_at"`
}

type recordResp struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	CostCents   int64  `json:"cost_cents"`
	OdometerKm  int    `json:"odometer_km"`
	PerformedAt int64  `json:"performed_at"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toAPI(r *Record) *recordResp {
	if r == nil {
		return nil
	}
	return &recordResp{
		ID:          r.ID,
		VehicleID:   r.VehicleID,
		Type:        r.Type,
		Description: r.Description,
		CostCents:   r.CostCents,
		OdometerKm:  r.OdometerKm,
		PerformedAt: r.PerformedAt.Unix(),
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   r.UpdatedAt.Unix(),
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createRecordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), CreateRecordInput{
		VehicleID:   req.VehicleID,
		Type:        req.Type,
		Description: req.Description,
		CostCents:   req.CostCents,
		OdometerKm:  req.OdometerKm,
		PerformedAt: time.Unix(req.PerformedAt, 0),
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(rec))
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(rec))
}

func (h *Handler) update(c *gin.Context) {
	var req updateRecordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	in := UpdateRecordInput{
		Type:        req.Type,
		Description: req.Description,
		CostCents:   req.CostCents,
		OdometerKm:  req.OdometerKm,
	}
	if req.PerformedAt != nil {
		t := time.Unix(*req.PerformedAt, 0)
		in.PerformedAt = &t
	}
	rec, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(rec))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"deleted": true})
}

func (h *Handler) list(c *gin.Context) {
	offset, limit := httpx.Pagination(c)
	recs, total, err := h.svc.List(c.Request.Context(), c.Query("vehicle_id"), offset, limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*recordResp, 0, len(recs))
	for i := range recs {
		r := recs[i]
		out = append(out, toAPI(&r))
	}
	httpx.OK(c, gin.H{"records": out, "total": total})
}
