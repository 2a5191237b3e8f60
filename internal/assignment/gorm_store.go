package assignment

import (
	"context"
	"fmt"

	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore Store 的 MySQL 实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) withCtx(ctx context.Context) *gorm.DB {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx)
}

// Transact 在单个数据库事务内执行 fn；fn 返回错误则整体回滚。
func (s *GormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// VehicleForUpdate 查询车辆并加行锁（SELECT ... FOR UPDATE），
// 序列化同一车辆上的并发“校验 + 写入”序列。
func (s *GormStore) VehicleForUpdate(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var v vehicle.Vehicle
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&v).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DriverForUpdate 查询司机并加行锁。
func (s *GormStore) DriverForUpdate(ctx context.Context, id string) (*driver.Driver, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var d driver.Driver
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&d).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *GormStore) ActiveByVehicle(ctx context.Context, vehicleID string) (*Assignment, error) {
	return s.findActive(ctx, "vehicle_id = ?", vehicleID)
}

func (s *GormStore) ActiveByDriver(ctx context.Context, driverID string) (*Assignment, error) {
	return s.findActive(ctx, "driver_id = ?", driverID)
}

func (s *GormStore) findActive(ctx context.Context, cond string, arg string) (*Assignment, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var a Assignment
	err := db.Where(cond, arg).Where("status = ?", StatusActive).First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) Create(ctx context.Context, a *Assignment) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Create(a).Error
}

func (s *GormStore) Save(ctx context.Context, a *Assignment) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Save(a).Error
}

func (s *GormStore) SetVehicleStatus(ctx context.Context, id string, status vehicle.Status) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Model(&vehicle.Vehicle{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) SetDriverStatus(ctx context.Context, id string, status driver.Status) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Model(&driver.Driver{}).Where("id = ?", id).Update("status", status).Error
}

// HasActiveByVehicle 供 vehicle.AssignmentChecker 使用。
func (s *GormStore) HasActiveByVehicle(ctx context.Context, vehicleID string) (bool, error) {
	a, err := s.ActiveByVehicle(ctx, vehicleID)
	return a != nil, err
}

// HasActiveByDriver 供 driver.AssignmentChecker 使用。
func (s *GormStore) HasActiveByDriver(ctx context.Context, driverID string) (bool, error) {
	a, err := s.ActiveByDriver(ctx, driverID)
	return a != nil, err
}

// List 支持按 driver_id / vehicle_id / status 过滤 + 分页。
func (s *GormStore) List(ctx context.Context, driverID, vehicleID string, status Status, offset, limit int) ([]Assignment, int64, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("store db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := db.Model(&Assignment{})
	if driverID != "" {
		q = q.Where("driver_id = ?", driverID)
	}
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []Assignment
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&assignments).Error; err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}
