package expense

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

// VehicleFinder 校验费用归属的车辆存在（由 vehicle 包实现）。
type VehicleFinder interface {
	FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
}

// Service 车辆费用的增删改查。
type Service struct {
	repo     *Repo
	vehicles VehicleFinder
}

func NewService(repo *Repo, vehicles VehicleFinder) *Service {
	return &Service{repo: repo, vehicles: vehicles}
}

// CreateExpenseInput 创建费用的入参。
type CreateExpenseInput struct {
	VehicleID   string
	Category    string
	AmountCents int64
	IncurredAt  time.Time
	Notes       string
}

func (s *Service) Create(ctx context.Context, in CreateExpenseInput) (*Expense, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	in.VehicleID = strings.TrimSpace(in.VehicleID)
	in.Category = strings.TrimSpace(in.Category)
	if in.VehicleID == "" || in.Category == "" {
		return nil, apperr.Validation("vehicle_id/category required")
	}
	if in.AmountCents <= 0 {
		return nil, apperr.Validation("amount_cents must be positive")
	}
	if in.IncurredAt.IsZero() {
		return nil, apperr.Validation("incurred_at required")
	}
	if s.vehicles != nil {
		if _, err := s.vehicles.FindByID(ctx, in.VehicleID); err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("vehicle not found: %s", in.VehicleID)
		} else if err != nil {
			return nil, err
		}
	}
	e := &Expense{
		ID:          uuid.NewString(),
		VehicleID:   in.VehicleID,
		Category:    in.Category,
		AmountCents: in.AmountCents,
		IncurredAt:  in.IncurredAt,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExpenseInput 编辑费用的入参，nil 字段不修改。
type UpdateExpenseInput struct {
	Category    *string
	AmountCents *int64
	IncurredAt  *time.Time
	Notes       *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateExpenseInput) (*Expense, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Category != nil {
		cat := strings.TrimSpace(*in.Category)
		if cat == "" {
			return nil, apperr.Validation("category cannot be empty")
		}
		e.Category = cat
	}
	if in.AmountCents != nil {
		if *in.AmountCents <= 0 {
			return nil, apperr.Validation("amount_cents must be positive")
		}
		e.AmountCents = *in.AmountCents
	}
	if in.IncurredAt != nil {
		if in.IncurredAt.IsZero() {
			return nil, apperr.Validation("incurred_at cannot be zero")
		}
		e.IncurredAt = *in.IncurredAt
	}
	if in.Notes != nil {
		e.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Expense, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	e, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("expense not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, vehicleID, category string, offset, limit int) ([]Expense, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.List(ctx, vehicleID, category, offset, limit)
}
