package expense

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

func (r *Repo) Create(ctx context.Context, e *Expense) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(e).Error
}

func (r *Repo) Save(ctx context.Context, e *Expense) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(e).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("id = ?", id).Delete(&Expense{}).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Expense, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var e Expense
	if err := db.Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) List(ctx context.Context, vehicleID, category string, offset, limit int) ([]Expense, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Expense{})
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var es []Expense
	if err := q.Order("incurred_at desc").Offset(offset).Limit(limit).Find(&es).Error; err != nil {
		return nil, 0, err
	}
	return es, total, nil
}

// SumAmountInPeriod 统计时间段内费用总额（分），供仪表盘使用。
func (r *Repo) SumAmountInPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var total int64
	err := db.Model(&Expense{}).
		Where("incurred_at >= ? AND incurred_at < ?", start, end).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
