package maintenance

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

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

func (r *Repo) Create(ctx context.Context, rec *Record) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(rec).Error
}

func (r *Repo) Save(ctx context.Context, rec *Record) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(rec).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("id = ?", id).Delete(&Record{}).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Record, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rec Record
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repo) List(ctx context.Context, vehicleID string, offset, limit int) ([]Record, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Record{})
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var recs []Record
	if err := q.Order("performed_at desc").Offset(offset).Limit(limit).Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// SumCostInPeriod 统计时间段内维保总花费（分），供仪表盘使用。
func (r *Repo) SumCostInPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := db.Model(&Record{}).
		Where("performed_at >= ? AND performed_at < ?", start, end).
		Select("COALESCE(SUM(cost_cents), 0)").
		Scan(&total).Error
	return total, err
}
