package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
)

// Service 站内通知：创建、查询与已读标记。
// 同时实现 application.Notifier，给审批结果推送用。
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// Notify 给指定用户创建一条未读通知。
func (s *Service) Notify(ctx context.Context, userID, title, content string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	userID = strings.TrimSpace(userID)
	title = strings.TrimSpace(title)
	if userID == "" || title == "" {
		return apperr.Validation("user_id/title required")
	}
	return s.repo.Create(ctx, &Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Content: content,
	})
}

func (s *Service) ListByUser(ctx context.Context, userID string, onlyUnread bool, offset, limit int) ([]Notification, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.repo.ListByUser(ctx, userID, onlyUnread, offset, limit)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, fmt.Errorf("service not initialized")
	}
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead 标记一条通知为已读，仅本人可操作。
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	n, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return apperr.NotFound("notification not found: %s", id)
	}
	if err != nil {
		return err
	}
	// 越权访问按业务校验失败处理
	if n.UserID != userID {
		return apperr.Validation("notification %s does not belong to caller", id)
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("service not initialized")
	}
	return s.repo.MarkAllRead(ctx, userID)
}
