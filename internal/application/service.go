package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// Action 审批动作。
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// activeStatuses 参与时间段冲突检查的状态集合：
// 待审批与已通过的申请都占用时间窗口。
var activeStatuses = []Status{StatusPending, StatusApproved}

// Service 用车申请服务：创建、编辑、审批、取消与行程状态流转。
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateInput 创建申请的入参。VehicleID / DriverID 可为空。
type CreateInput struct {
	ApplicantID string
	Title       string
	Purpose     string
	Destination string
	Passengers  int
	StartTime   time.Time
	EndTime     time.Time
	VehicleID   string
	DriverID    string
	Notes       string
}

// Create 创建用车申请，初始状态为 pending。
// 指定了车辆/司机时要求其处于可用状态，并在事务内持行锁做时间段冲突检查，
// 与其它 pending / approved 申请的闭区间相交（含端点相接）即拒绝。
func (s *Service) Create(ctx context.Context, in CreateInput) (*Application, error) {
	if s.store == nil {
		return nil, errors.New("application store is nil")
	}
	if in.ApplicantID == "" {
		return nil, apperr.Validation("applicant_id is required")
	}
	if in.Title == "" || in.Purpose == "" || in.Destination == "" {
		return nil, apperr.Validation("title, purpose and destination are required")
	}
	now := s.now()
	if err := validateWindow(in.StartTime, in.EndTime, now); err != nil {
		return nil, err
	}
	if in.Passengers <= 0 {
		in.Passengers = 1
	}

	app := &Application{
		ID:          uuid.NewString(),
		ApplicantID: in.ApplicantID,
		VehicleID:   in.VehicleID,
		DriverID:    in.DriverID,
		Title:       in.Title,
		Purpose:     in.Purpose,
		Destination: in.Destination,
		Passengers:  in.Passengers,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Notes:       in.Notes,
		Status:      StatusPending,
	}

	err := s.store.Transact(ctx, func(tx Store) error {
		if in.VehicleID != "" {
			v, err := tx.VehicleForUpdate(ctx, in.VehicleID)
			if err != nil {
				return err
			}
			if v == nil {
				return apperr.NotFound("vehicle %s not found", in.VehicleID)
			}
			if v.Status != vehicle.StatusAvailable {
				return apperr.Validation("vehicle %s is not available (status=%s)", v.ID, v.Status)
			}
			booked, err := tx.ListByVehicleInStatuses(ctx, in.VehicleID, activeStatuses)
			if err != nil {
				return err
			}
			if HasOverlap(rangesOf(booked), in.StartTime, in.EndTime) {
				return apperr.Conflict("vehicle %s is already booked for an overlapping time window", in.VehicleID)
			}
		}
		if in.DriverID != "" {
			d, err := tx.DriverForUpdate(ctx, in.DriverID)
			if err != nil {
				return err
			}
			if d == nil {
				return apperr.NotFound("driver %s not found", in.DriverID)
			}
			if d.Status != driver.StatusAvailable {
				return apperr.Validation("driver %s is not available (status=%s)", d.ID, d.Status)
			}
			booked, err := tx.ListByDriverInStatuses(ctx, in.DriverID, activeStatuses)
			if err != nil {
				return err
			}
			if HasOverlap(rangesOf(booked), in.StartTime, in.EndTime) {
				return apperr.Conflict("driver %s is already booked for an overlapping time window", in.DriverID)
			}
		}
		return tx.Create(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateInput 编辑申请的入参，nil 字段表示不修改。
type UpdateInput struct {
	Title       *string
	Purpose     *string
	Destination *string
	Passengers  *int
	StartTime   *time.Time
	EndTime     *time.Time
	Notes       *string
}

// Update 编辑申请，仅 pending 状态可编辑；普通用户只能编辑本人申请。
// 修改时间段时对合并后的 start/end 重新校验。
func (s *Service) Update(ctx context.Context, id, callerID string, roles []string, in UpdateInput) (*Application, error) {
	if s.store == nil {
		return nil, errors.New("application store is nil")
	}
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFound("application %s not found", id)
	}
	// 权限不足归类为业务校验失败，认证失败才走 Unauthorized
	if !CanModify(roles, callerID, app) {
		return nil, apperr.Validation("no permission to modify application %s", id)
	}
	if app.Status != StatusPending {
		return nil, apperr.Validation("only pending applications can be edited (status=%s)", app.Status)
	}

	start, end := app.StartTime, app.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if in.StartTime != nil || in.EndTime != nil {
		if err := validateWindow(start, end, s.now()); err != nil {
			return nil, err
		}
		app.StartTime, app.EndTime = start, end
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		app.Title = *in.Title
	}
	if in.Purpose != nil {
		app.Purpose = *in.Purpose
	}
	if in.Destination != nil {
		app.Destination = *in.Destination
	}
	if in.Passengers != nil {
		if *in.Passengers <= 0 {
			return nil, apperr.Validation("passengers must be positive")
		}
		app.Passengers = *in.Passengers
	}
	if in.Notes != nil {
		app.Notes = *in.Notes
	}
	if err := s.store.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Decide 审批：仅 pending 可审批，须具备审批角色。
// 通过后不自动创建车辆绑定，派车仍由调度接口单独完成。
func (s *Service) Decide(ctx context.Context, id, approverID string, roles []string, action Action, comments string) (*Application, error) {
	if s.store == nil {
		return nil, errors.New("application store is nil")
	}
	if !IsApprover(roles) {
		return nil, apperr.Validation("approver role required")
	}
	var to Status
	switch action {
	case ActionApprove:
		to = StatusApproved
	case ActionReject:
		to = StatusRejected
	default:
		return nil, apperr.Validation("unknown action %q", action)
	}
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFound("application %s not found", id)
	}
	if app.Status != StatusPending {
		return nil, apperr.Validation("application %s has already been decided (status=%s)", id, app.Status)
	}
	if err := ApplyTransition(app, to, s.now()); err != nil {
		return nil, err
	}
	app.ApproverID = approverID
	app.Comments = comments
	if err := s.store.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Cancel 取消申请：pending 或 approved 可取消。
// 取消不回收已生效的车辆绑定，解绑仍走调度接口。
func (s *Service) Cancel(ctx context.Context, id, callerID string, roles []string) (*Application, error) {
	if s.store == nil {
		return nil, errors.New("application store is nil")
	}
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFound("application %s not found", id)
	}
	if !CanModify(roles, callerID, app) {
		return nil, apperr.Validation("no permission to cancel application %s", id)
	}
	if err := ApplyTransition(app, StatusCancelled, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Start 开始行程：approved -> in_progress。
func (s *Service) Start(ctx context.Context, id string, roles []string) (*Application, error) {
	return s.advance(ctx, id, roles, StatusInProgress)
}

// Complete 结束行程：in_progress -> completed。
func (s *Service) Complete(ctx context.Context, id string, roles []string) (*Application, error) {
	return s.advance(ctx, id, roles, StatusCompleted)
}

func (s *Service) advance(ctx context.Context, id string, roles []string, to Status) (*Application, error) {
	if s.store == nil {
		return nil, errors.New("application store is nil")
	}
	if !IsApprover(roles) {
		return nil, apperr.Validation("approver role required")
	}
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFound("application %s not found", id)
	}
	if err := ApplyTransition(app, to, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Get 查询单条申请。
func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	if s.store == nil {
		return nil, errors.New("application store is nil")
	}
	app, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperr.NotFound("application %s not found", id)
	}
	return app, nil
}

// List 分页查询申请列表。
func (s *Service) List(ctx context.Context, f ListFilter) ([]Application, int64, error) {
	if s.store == nil {
		return nil, 0, errors.New("application store is nil")
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("unknown status %q", f.Status)
	}
	return s.store.List(ctx, f)
}

func validateWindow(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.Validation("start_time and end_time are required")
	}
	if !end.After(start) {
		return apperr.Validation("end_time must be after start_time")
	}
	if !start.After(now) {
		return apperr.Validation("start_time must be in the future")
	}
	return nil
}
