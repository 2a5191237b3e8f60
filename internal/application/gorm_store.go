package application

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// GormStore 基于 gorm 的 Store 实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	if s.db == nil {
		return errors.New("store db is nil")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Get(ctx context.Context, id string) (*Application, error) {
	if s.db == nil {
		return nil, errors.New("store db is nil")
	}
	var app Application
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *GormStore) Create(ctx context.Context, app *Application) error {
	if s.db == nil {
		return errors.New("store db is nil")
	}
	return s.db.WithContext(ctx).Create(app).Error
}

func (s *GormStore) Save(ctx context.Context, app *Application) error {
	if s.db == nil {
		return errors.New("store db is nil")
	}
	return s.db.WithContext(ctx).Save(app).Error
}

func (s *GormStore) List(ctx context.Context, f ListFilter) ([]Application, int64, error) {
	if s.db == nil {
		return nil, 0, errors.New("store db is nil")
	}
	q := s.db.WithContext(ctx).Model(&Application{})
	if f.ApplicantID != "" {
		q = q.Where("applicant_id = ?", f.ApplicantID)
	}
	if f.VehicleID != "" {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if f.DriverID != "" {
		q = q.Where("driver_id = ?", f.DriverID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var apps []Application
	err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// VehicleForUpdate 在事务内对车辆行加排它锁，串行化同一车辆上的冲突检查。
func (s *GormStore) VehicleForUpdate(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	if s.db == nil {
		return nil, errors.New("store db is nil")
	}
	var v vehicle.Vehicle
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *GormStore) DriverForUpdate(ctx context.Context, id string) (*driver.Driver, error) {
	if s.db == nil {
		return nil, errors.New("store db is nil")
	}
	var d driver.Driver
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *GormStore) ListByVehicleInStatuses(ctx context.Context, vehicleID string, statuses []Status) ([]Application, error) {
	if s.db == nil {
		return nil, errors.New("store db is nil")
	}
	var apps []Application
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ? AND status IN ?", vehicleID, statuses).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *GormStore) ListByDriverInStatuses(ctx context.Context, driverID string, statuses []Status) ([]Application, error) {
	if s.db == nil {
		return nil, errors.New("store db is nil")
	}
	var apps []Application
	err := s.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID, statuses).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}
