package vehicle

import (
	"context"
	"fmt"
	"strings"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentChecker 查询车辆是否存在生效的司机绑定（由 assignment 包实现）。
type AssignmentChecker interface {
	HasActiveByVehicle(ctx context.Context, vehicleID string) (bool, error)
}

// Service 封装车辆档案的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo        *Repo
	assignments AssignmentChecker
}

func NewService(repo *Repo, assignments AssignmentChecker) *Service {
	return &Service{repo: repo, assignments: assignments}
}

// CreateVehicleInput 创建车辆的入参。
type CreateVehicleInput struct {
	PlateNumber string
	VIN         string
	Brand       string
	Model       string
	Seats       int
	Notes       string
}

// UpdateVehicleInput 编辑车辆档案的入参（状态不在此处修改）。
type UpdateVehicleInput struct {
	PlateNumber *string
	VIN         *string
	Brand       *string
	Model       *string
	Seats       *int
	Notes       *string
}

func (s *Service) Create(ctx context.Context, in CreateVehicleInput) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	plate := strings.TrimSpace(in.PlateNumber)
	if plate == "" {
		return nil, apperr.Validation("plate_number required")
	}

	if _, err := s.repo.FindByPlate(ctx, plate); err == nil {
		return nil, apperr.Conflict("plate number already exists: %s", plate)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	seats := in.Seats
	if seats <= 0 {
		seats = 5
	}

	v := &Vehicle{
		ID:          uuid.NewString(),
		PlateNumber: plate,
		VIN:         strings.TrimSpace(in.VIN),
		Brand:       strings.TrimSpace(in.Brand),
		Model:       strings.TrimSpace(in.Model),
		Seats:       seats,
		Status:      StatusAvailable,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("id required")
	}
	v, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("vehicle not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateVehicleInput) (*Vehicle, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PlateNumber != nil {
		plate := strings.TrimSpace(*in.PlateNumber)
		if plate == "" {
			return nil, apperr.Validation("plate_number cannot be empty")
		}
		if plate != v.PlateNumber {
			if _, err := s.repo.FindByPlate(ctx, plate); err == nil {
				return nil, apperr.Conflict("plate number already exists: %s", plate)
			} else if err != gorm.ErrRecordNotFound {
				return nil, err
			}
			v.PlateNumber = plate
		}
	}
	if in.VIN != nil {
		v.VIN = strings.TrimSpace(*in.VIN)
	}
	if in.Brand != nil {
		v.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Model != nil {
		v.Model = strings.TrimSpace(*in.Model)
	}
	if in.Seats != nil {
		if *in.Seats <= 0 {
			return nil, apperr.Validation("seats must be positive")
		}
		v.Seats = *in.Seats
	}
	if in.Notes != nil {
		v.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Retire 车辆退役：状态流转而非物理删除。存在生效司机绑定时拒绝。
func (s *Service) Retire(ctx context.Context, id string) (*Vehicle, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusRetired {
		return nil, apperr.Validation("vehicle already retired: %s", id)
	}
	if s.assignments != nil {
		active, err := s.assignments.HasActiveByVehicle(ctx, id)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, apperr.Validation("vehicle has an active driver assignment, unassign first")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusRetired); err != nil {
		return nil, err
	}
	v.Status = StatusRetired
	return v, nil
}

func (s *Service) List(ctx context.Context, status Status, offset, limit int) ([]Vehicle, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("unknown vehicle status: %s", status)
	}
	return s.repo.List(ctx, status, offset, limit)
}
