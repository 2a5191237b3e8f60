package notification

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

func (r *Repo) Create(ctx context.Context, n *Notification) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(n).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Notification, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var n Notification
	if err := db.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string, onlyUnread bool, offset, limit int) ([]Notification, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Notification{}).Where("user_id = ?", userID)
	if onlyUnread {
		q = q.Where("`read` = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ns []Notification
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&ns).Error; err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

func (r *Repo) CountUnread(ctx context.Context, userID string) (int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("repo db is nil")
	}
	var n int64
	err := db.Model(&Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *Repo) MarkRead(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (r *Repo) MarkAllRead(ctx context.Context, userID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Model(&Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
}
