package expense

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

// RegisterRoutes 挂载费用路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/expenses")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

type createExpenseReq struct {
	VehicleID   string `json:"vehicle_id" binding:"required"`
	Category    string `json:"category" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	IncurredAt  int64  `json:"incurred_at" binding:"required"`
	Notes       string `json:"notes"`
}

type updateExpenseReq struct {
	Category    *string `json:"category"`
	AmountCents *int64  `json:"amount_cents"`
	IncurredAt  *int64  `json:"incurred_at"`
	Notes       *string `json:"notes"`
}

type expenseResp struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	IncurredAt  int64  `json:"incurred_at"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toAPI(e *Expense) *expenseResp {
	if e == nil {
		return nil
	}
	return &expenseResp{
		ID:          e.ID,
		VehicleID:   e.VehicleID,
		Category:    e.Category,
		AmountCents: e.AmountCents,
		IncurredAt:  e.IncurredAt.Unix(),
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt.Unix(),
		UpdatedAt:   e.UpdatedAt.Unix(),
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	e, err := h.svc.Create(c.Request.Context(), CreateExpenseInput{
		VehicleID:   req.VehicleID,
		Category:    req.Category,
		AmountCents: req.AmountCents,
		IncurredAt:  time.Unix(req.IncurredAt, 0),
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(e))
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(e))
}

func (h *Handler) update(c *gin.Context) {
	var req updateExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	in := UpdateExpenseInput{
		Category:    req.Category,
		AmountCents: req.AmountCents,
		Notes:       req.Notes,
	}
	if req.IncurredAt != nil {
		t := time.Unix(*req.IncurredAt, 0)
		in.IncurredAt = &t
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(e))
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
	es, total, err := h.svc.List(c.Request.Context(), c.Query("vehicle_id"), c.Query("category"), offset, limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*expenseResp, 0, len(es))
	for i := range es {
		e := es[i]
		out = append(out, toAPI(&e))
	}
	httpx.OK(c, gin.H{"expenses": out, "total": total})
}
