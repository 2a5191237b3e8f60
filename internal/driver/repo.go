package driver

import (
	"context"
	"fmt"

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

func (r *Repo) Create(ctx context.Context, d *Driver) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(d).Error
}

func (r *Repo) Save(ctx context.Context, d *Driver) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(d).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var d Driver
	if err := db.Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDuplicate 查找与给定驾照号/身份证号/手机号任一冲突的司机（排除 excludeID）。
func (r *Repo) FindDuplicate(ctx context.Context, license, nationalID, phone, excludeID string) (*Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Where("license_number = ? OR national_id = ? OR phone = ?", license, nationalID, phone)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var d Driver
	if err := q.First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateStatus 只更新状态字段；状态写入统一收口在服务层与派车流程。
func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Driver{}).Where("id = ?", id).Update("status", status).Error
}

// List 支持按 status 过滤 + 分页。
func (r *Repo) List(ctx context.Context, status Status, offset, limit int) ([]Driver, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := db.Model(&Driver{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var drivers []Driver
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&drivers).Error; err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}
