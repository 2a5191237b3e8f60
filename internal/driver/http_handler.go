package driver

import (
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载司机路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/drivers")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/deactivate", h.deactivate)
}

type createDriverReq struct {
	Name          string `json:"name" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	NationalID    string `json:"national_id" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	HiredAt       int64  `json:"hired_at"` // Unix 秒，0 表示未填
	Notes         string `json:"notes"`
}

type updateDriverReq struct {
	Name          *string `json:"name"`
	LicenseNumber *string `json:"license_number"`
	NationalID    *string `json:"national_id"`
	Phone         *string `json:"phone"`
	HiredAt       *int64  `json:"hired_at"`
	Notes         *string `json:"notes"`
}

type driverResp struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	NationalID    string `json:"national_id"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
	HiredAt       int64  `json:"hired_at"`
	Notes         string `json:"notes"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

func toAPI(d *Driver) *driverResp {
	if d == nil {
		return nil
	}
	var hiredAt int64
	if d.HiredAt != nil {
		hiredAt = d.HiredAt.Unix()
	}
	return &driverResp{
		ID:            d.ID,
		Name:          d.Name,
		LicenseNumber: d.LicenseNumber,
		NationalID:    d.NationalID,
		Phone:         d.Phone,
		Status:        string(d.Status),
		HiredAt:       hiredAt,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt.Unix(),
		UpdatedAt:     d.UpdatedAt.Unix(),
	}
}

func unixPtr(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0)
	return &t
}

func (h *Handler) create(c *gin.Context) {
	var req createDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	var hiredAt *time.Time
	if req.HiredAt > 0 {
		t := time.Unix(req.HiredAt, 0)
		hiredAt = &t
	}
	d, err := h.svc.Create(c.Request.Context(), CreateDriverInput{
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		NationalID:    req.NationalID,
		Phone:         req.Phone,
		HiredAt:       hiredAt,
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(d))
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(d))
}

func (h *Handler) update(c *gin.Context) {
	var req updateDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateDriverInput{
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		NationalID:    req.NationalID,
		Phone:         req.Phone,
		HiredAt:       unixPtr(req.HiredAt),
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(d))
}

func (h *Handler) deactivate(c *gin.Context) {
	d, err := h.svc.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(d))
}

func (h *Handler) list(c *gin.Context) {
	offset, limit := httpx.Pagination(c)
	ds, total, err := h.svc.List(c.Request.Context(), Status(c.Query("status")), offset, limit)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*driverResp, 0, len(ds))
	for i := range ds {
		d := ds[i]
		out = append(out, toAPI(&d))
	}
	httpx.OK(c, gin.H{"drivers": out, "total": total})
}
