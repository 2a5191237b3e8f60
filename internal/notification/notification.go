package notification

import "time"

// Notification 是 notifications 表的 GORM 模型：站内通知。
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index;size:36;not null"`
	Title     string    `gorm:"size:128;not null"`
	Content   string    `gorm:"size:512"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
