package stats

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SmartFleet/SmartFleet/internal/application"
	"github.com/SmartFleet/SmartFleet/internal/assignment"
	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// Repo 仪表盘用的聚合查询。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

type statusCount struct {
	Status string
	N      int64
}

func (r *Repo) countByStatus(ctx context.Context, model interface{}) (map[string]int64, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	var rows []statusCount
	err := db.Model(model).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make(map[string]int64, len(rows))
	var total int64
	for _, row := range rows {
		out[row.Status] = row.N
		total += row.N
	}
	return out, total, nil
}

func (r *Repo) VehiclesByStatus(ctx context.Context) (map[string]int64, int64, error) {
	return r.countByStatus(ctx, &vehicle.Vehicle{})
}

func (r *Repo) DriversByStatus(ctx context.Context) (map[string]int64, int64, error) {
	return r.countByStatus(ctx, &driver.Driver{})
}

func (r *Repo) ApplicationCounts(ctx context.Context) (total, pending int64, err error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, 0, fmt.Errorf("repo db is nil")
	}
	if err = db.Model(&application.Application{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = db.Model(&application.Application{}).
		Where("status = ?", application.StatusPending).
		Count(&pending).Error
	return total, pending, err
}

func (r *Repo) ActiveAssignments(ctx context.Context) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var n int64
	err := db.Model(&assignment.Assignment{}).
		Where("status = ?", assignment.StatusActive).
		Count(&n).Error
	return n, err
}
