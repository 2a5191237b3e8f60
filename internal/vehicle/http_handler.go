package vehicle

import (
	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载车辆路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/vehicles")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/retire", h.retire)
}

type createVehicleReq struct {
	PlateNumber string `json:"plate_number" binding:"required"`
	VIN         string `json:"vin"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Seats       int    `json:"seats"`
	Notes       string `json:"notes"`
}

type updateVehicleReq struct {
	PlateNumber *string `json:"plate_number"`
	VIN         *string `json:"vin"`
	Brand       *string `json:"brand"`
	Model       *string `json:"model"`
	Seats       *int    `json:"seats"`
	Notes       *string `json:"notes"`
}

type vehicleResp struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	VIN         string `json:"vin"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Seats       int    `json:"seats"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toAPI(v *Vehicle) *vehicleResp {
	if v == nil {
		return nil
	}
	return &vehicleResp{
		ID:          v.ID,
		PlateNumber: v.PlateNumber,
		VIN:         v.VIN,
		Brand:       v.Brand,
		Model:       v.Model,
		Seats:       v.Seats,
		Status:      string(v.Status),
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt.Unix(),
		UpdatedAt:   v.UpdatedAt.Unix(),
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	v, err := h.svc.Create(c.Request.Context(), CreateVehicleInput{
		PlateNumber: req.PlateNumber,
		VIN:         req.VIN,
		Brand:       req.Brand,
		Model:       req.Model,
		Seats:       req.Seats,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(v))
}

func (h *Handler) get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(v))
}

func (h *Handler) update(c *gin.Context) {
	var req updateVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	v, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateVehicleInput{
		PlateNumber: req.PlateNumber,
		VIN:         req.VIN,
		Brand:       req.Brand,
		Model:       req.Model,
		Seats:       req.Seats,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(v))
}

func (h *Handler) retire(c *gin.Context) {
	v, err := h.svc.Retire(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(v))
}

func (h *Handler) list(c *gin.Context) {
	offset, limit := httpx.Pagination(c)
	vs, total, err := h.svc.List(c.Request.Context(), Status(c.Query("status")), offset, limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*vehicleResp, 0, len(vs))
	for i := range vs {
		v := vs[i]
		out = append(out, toAPI(&v))
	}
	httpx.OK(c, gin.H{"vehicles": out, "total": total})
}
