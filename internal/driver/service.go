package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentChecker 查询司机是否存在生效的车辆绑定（由 assignment 包实现）。
type AssignmentChecker interface {
	HasActiveByDriver(ctx context.Context, driverID string) (bool, error)
}

// Service 封装司机档案的核心用例。
type Service struct {
	repo        *Repo
	assignments AssignmentChecker
}

func NewService(repo *Repo, assignments AssignmentChecker) *Service {
	return &Service{repo: repo, assignments: assignments}
}

// CreateDriverInput 创建司机的入参。
type CreateDriverInput struct {
	Name          string
	LicenseNumber string
	NationalID    string
	Phone         string
	HiredAt       *time.Time
	Notes         string
}

// UpdateDriverInput 编辑司机档案的入参（状态不在此处修改）。
type UpdateDriverInput struct {
	Name          *string
	LicenseNumber *string
	NationalID    *string
	Phone         *string
	HiredAt       *time.Time
	Notes         *string
}

func (s *Service) Create(ctx context.Context, in CreateDriverInput) (*Driver, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	name := strings.TrimSpace(in.Name)
	license := strings.TrimSpace(in.LicenseNumber)
	national := strings.TrimSpace(in.NationalID)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || license == "" || national == "" || phone == "" {
		return nil, apperr.Validation("name/license_number/national_id/phone required")
	}

	if dup, err := s.repo.FindDuplicate(ctx, license, national, phone, ""); err == nil {
		return nil, apperr.Conflict("license/national_id/phone already used by driver %s", dup.ID)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	d := &Driver{
		ID:            uuid.NewString(),
		Name:          name,
		LicenseNumber: license,
		NationalID:    national,
		Phone:         phone,
		Status:        StatusAvailable,
		HiredAt:       in.HiredAt,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Driver, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("id required")
	}
	d, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("driver not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateDriverInput) (*Driver, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		d.Name = name
	}
	if in.LicenseNumber != nil {
		d.LicenseNumber = strings.TrimSpace(*in.LicenseNumber)
	}
	if in.NationalID != nil {
		d.NationalID = strings.TrimSpace(*in.NationalID)
	}
	if in.Phone != nil {
		d.Phone = strings.TrimSpace(*in.Phone)
	}
	if d.LicenseNumber == "" || d.NationalID == "" || d.Phone == "" {
		return nil, apperr.Validation("license_number/national_id/phone cannot be empty")
	}
	if in.LicenseNumber != nil || in.NationalID != nil || in.Phone != nil {
		if dup, err := s.repo.FindDuplicate(ctx, d.LicenseNumber, d.NationalID, d.Phone, d.ID); err == nil {
			return nil, apperr.Conflict("license/national_id/phone already used by driver %s", dup.ID)
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if in.HiredAt != nil {
		d.HiredAt = in.HiredAt
	}
	if in.Notes != nil {
		d.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Deactivate 停用司机：状态流转而非物理删除。存在生效车辆绑定时拒绝。
func (s *Service) Deactivate(ctx context.Context, id string) (*Driver, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == StatusInactive {
		return nil, apperr.Validation("driver already inactive: %s", id)
	}
	if s.assignments != nil {
		active, err := s.assignments.HasActiveByDriver(ctx, id)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, apperr.Validation("driver has an active vehicle assignment, unassign first")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusInactive); err != nil {
		return nil, err
	}
	d.Status = StatusInactive
	return d, nil
}

func (s *Service) List(ctx context.Context, status Status, offset, limit int) ([]Driver, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("unknown driver status: %s", status)
	}
	return s.repo.List(ctx, status, offset, limit)
}
