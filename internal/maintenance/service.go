package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// VehicleFinder 校验维保记录归属的车辆存在（由 vehicle 包实现）。
type VehicleFinder interface {
	FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
}

// Service 车辆维保记录的增删改查。
type Service struct {
	repo     *Repo
	vehicles VehicleFinder
}

func NewService(repo *Repo, vehicles VehicleFinder) *Service {
	return &Service{repo: repo, vehicles: vehicles}
}

// CreateRecordInput 创建维保记录的入参。
type CreateRecordInput struct {
	VehicleID   string
	Type        string
	Description string
	CostCents   int64
	OdometerKm  int
	PerformedAt time.Time
}

func (s *Service) Create(ctx context.Context, in CreateRecordInput) (*Record, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	in.VehicleID = strings.TrimSpace(in.VehicleID)
	in.Type = strings.TrimSpace(in.Type)
	if in.VehicleID == "" || in.Type == "" {
		return nil, apperr.Validation("vehicle_id/type required")
	}
	if in.CostCents < 0 {
		return nil, apperr.Validation("cost_cents must not be negative")
	}
	if in.PerformedAt.IsZero() {
		return nil, apperr.Validation("performed_at required")
	}
	if err := s.checkVehicle(ctx, in.VehicleID); err != nil {
		return nil, err
	}
	rec := &Record{
		ID:          uuid.NewString(),
		VehicleID:   in.VehicleID,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		CostCents:   in.CostCents,
		OdometerKm:  in.OdometerKm,
		PerformedAt: in.PerformedAt,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecordInput 编辑维保记录的入参，nil 字段不修改。
type UpdateRecordInput struct {
	Type        *string
	Description *string
	CostCents   *int64
	OdometerKm  *int
	PerformedAt *time.Time
}

func (s *Service) Update(ctx context.Context, id string, in UpdateRecordInput) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Type != nil {
		t := strings.TrimSpace(*in.Type)
		if t == "" {
			return nil, apperr.Validation("type cannot be empty")
		}
		rec.Type = t
	}
	if in.Description != nil {
		rec.Description = strings.TrimSpace(*in.Description)
	}
	if in.CostCents != nil {
		if *in.CostCents < 0 {
			return nil, apperr.Validation("cost_cents must not be negative")
		}
		rec.CostCents = *in.CostCents
	}
	if in.OdometerKm != nil {
		rec.OdometerKm = *in.OdometerKm
	}
	if in.PerformedAt != nil {
		if in.PerformedAt.IsZero() {
			return nil, apperr.Validation("performed_at cannot be zero")
		}
		rec.PerformedAt = *in.PerformedAt
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("maintenance record not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, vehicleID string, offset, limit int) ([]Record, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, vehicleID, offset, limit)
}

func (s *Service) checkVehicle(ctx context.Context, vehicleID string) error {
	if s.vehicles == nil {
		return nil
	}
	_, err := s.vehicles.FindByID(ctx, vehicleID)
	if err == gorm.ErrRecordNotFound {
		return apperr.NotFound("vehicle not found: %s", vehicleID)
	}
	return err
}
