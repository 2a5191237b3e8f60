package application

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartFleet/SmartFleet/internal/common/httpx"
	"github.com/SmartFleet/SmartFleet/internal/common/logger"
	"github.com/SmartFleet/SmartFleet/internal/common/middleware"
)

// Notifier 审批结果通知。实现方失败只记日志，不影响审批结果。
type Notifier interface {
	Notify(ctx context.Context, userID, title, content string) error
}

type Handler struct {
	svc      *Service
	notifier Notifier
	log      logger.Logger
}

func NewHandler(svc *Service, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{svc: svc, notifier: notifier, log: log}
}

// RegisterRoutes 挂载用车申请路由。
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/applications")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/decide", h.decide)
	g.POST("/:id/cancel", h.cancel)
	g.POST("/:id/start", h.start)
	g.POST("/:id/complete", h.complete)
}

type createApplicationReq struct {
	Title       string `json:"title" binding:"required"`
	Purpose     string `json:"purpose" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Passengers  int    `json:"passengers"`
	StartTime   int64  `json:"start_time" binding:"required"`
	EndTime     int64  `json:"end_time" binding:"required"`
	VehicleID   string `json:"vehicle_id"`
	DriverID    string `json:"driver_id"`
	Notes       string `json:"notes"`
}

type updateApplicationReq struct {
	Title       *string `json:"title"`
	Purpose     *string `json:"purpose"`
	Destination *string `json:"destination"`
	Passengers  *int    `json:"passengers"`
	StartTime   *int64  `json:"start_time"`
	EndTime     *int64  `json:"end_time"`
	Notes       *string `json:"notes"`
}

type decideReq struct {
	Action   string `json:"action" binding:"required"` // approve / reject
	Comments string `json:"comments"`
}

type applicationResp struct {
	ID          string `json:"id"`
	ApplicantID string `json:"applicant_id"`
	VehicleID   string `json:"vehicle_id,omitempty"`
	DriverID    string `json:"driver_id,omitempty"`
	Title       string `json:"title"`
	Purpose     string `json:"purpose"`
	Destination string `json:"destination"`
	Passengers  int    `json:"passengers"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
	Notes       string `json:"notes,omitempty"`
	Status      string `json:"status"`
	ApproverID  string `json:"approver_id,omitempty"`
	Comments    string `json:"comments,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	DecidedAt   int64  `json:"decided_at,omitempty"`
	StartedAt   int64  `json:"started_at,omitempty"`
	CompletedAt int64  `json:"completed_at,omitempty"`
	CanceledAt  int64  `json:"canceled_at,omitempty"`
}

func toAPI(a *Application) *applicationResp {
	if a == nil {
		return nil
	}
	resp := &applicationResp{
		ID:          a.ID,
		ApplicantID: a.ApplicantID,
		VehicleID:   a.VehicleID,
		DriverID:    a.DriverID,
		Title:       a.Title,
		Purpose:     a.Purpose,
		Destination: a.Destination,
		Passengers:  a.Passengers,
		StartTime:   a.StartTime.Unix(),
		EndTime:     a.EndTime.Unix(),
		Notes:       a.Notes,
		Status:      string(a.Status),
		ApproverID:  a.ApproverID,
		Comments:    a.Comments,
		CreatedAt:   a.CreatedAt.Unix(),
		UpdatedAt:   a.UpdatedAt.Unix(),
	}
	if a.DecidedAt != nil {
		resp.DecidedAt = a.DecidedAt.Unix()
	}
	if a.StartedAt != nil {
		resp.StartedAt = a.StartedAt.Unix()
	}
	if a.CompletedAt != nil {
		resp.CompletedAt = a.CompletedAt.Unix()
	}
	if a.CanceledAt != nil {
		resp.CanceledAt = a.CanceledAt.Unix()
	}
	return resp
}

func (h *Handler) create(c *gin.Context) {
	var req createApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	info, _ := middleware.AuthFromContext(c)
	app, err := h.svc.Create(c.Request.Context(), CreateInput{
		ApplicantID: info.Subject,
		Title:       req.Title,
		Purpose:     req.Purpose,
		Destination: req.Destination,
		Passengers:  req.Passengers,
		StartTime:   time.Unix(req.StartTime, 0),
		EndTime:     time.Unix(req.EndTime, 0),
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toAPI(app))
}

func (h *Handler) get(c *gin.Context) {
	app, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(app))
}

func (h *Handler) update(c *gin.Context) {
	var req updateApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	info, _ := middleware.AuthFromContext(c)
	in := UpdateInput{
		Title:       req.Title,
		Purpose:     req.Purpose,
		Destination: req.Destination,
		Passengers:  req.Passengers,
		Notes:       req.Notes,
	}
	if req.StartTime != nil {
		t := time.Unix(*req.StartTime, 0)
		in.StartTime = &t
	}
	if req.EndTime != nil {
		t := time.Unix(*req.EndTime, 0)
		in.EndTime = &t
	}
	app, err := h.svc.Update(c.Request.Context(), c.Param("id"), info.Subject, info.Roles, in)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(app))
}

func (h *Handler) decide(c *gin.Context) {
	var req decideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	info, _ := middleware.AuthFromContext(c)
	app, err := h.svc.Decide(c.Request.Context(), c.Param("id"), info.Subject, info.Roles, Action(req.Action), req.Comments)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.notifyDecision(c.Request.Context(), app)
	httpx.OK(c, toAPI(app))
}

// notifyDecision 给申请人发审批结果通知，失败只记日志。
func (h *Handler) notifyDecision(ctx context.Context, app *Application) {
	if h.notifier == nil {
		return
	}
	title := "用车申请已通过"
	if app.Status == StatusRejected {
		title = "用车申请已驳回"
	}
	content := app.Title
	if app.Comments != "" {
		content += "：" + app.Comments
	}
	if err := h.notifier.Notify(ctx, app.ApplicantID, title, content); err != nil && h.log != nil {
		h.log.Errorf("notify applicant %s failed: %v", app.ApplicantID, err)
	}
}

func (h *Handler) cancel(c *gin.Context) {
	info, _ := middleware.AuthFromContext(c)
	app, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), info.Subject, info.Roles)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(app))
}

func (h *Handler) start(c *gin.Context) {
	info, _ := middleware.AuthFromContext(c)
	app, err := h.svc.Start(c.Request.Context(), c.Param("id"), info.Roles)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(app))
}

func (h *Handler) complete(c *gin.Context) {
	info, _ := middleware.AuthFromContext(c)
	app, err := h.svc.Complete(c.Request.Context(), c.Param("id"), info.Roles)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toAPI(app))
}

func (h *Handler) list(c *gin.Context) {
	offset, limit := httpx.Pagination(c)
	f := ListFilter{
		ApplicantID: c.Query("applicant_id"),
		VehicleID:   c.Query("vehicle_id"),
		DriverID:    c.Query("driver_id"),
		Status:      Status(c.Query("status")),
		Offset:      offset,
		Limit:       limit,
	}
	// 普通用户只能看本人申请
	if info, ok := middleware.AuthFromContext(c); ok && !IsApprover(info.Roles) && info.Subject != "" {
		f.ApplicantID = info.Subject
	}
	apps, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	out := make([]*applicationResp, 0, len(apps))
	for i := range apps {
		a := apps[i]
		out = append(out, toAPI(&a))
	}
	httpx.OK(c, gin.H{"applications": out, "total": total})
}
