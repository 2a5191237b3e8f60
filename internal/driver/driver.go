package driver

import (
	"time"
)

// Status 司机状态枚举（持久化为字符串）。
type Status string

const (
	StatusAvailable Status = "available" // 可派
	StatusBusy      Status = "busy"      // 存在生效的车辆绑定
	StatusOnLeave   Status = "on_leave"  // 请假
	StatusInactive  Status = "inactive"  // 已停用（不做物理删除）
)

// Valid 判断是否为合法状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOnLeave, StatusInactive:
		return true
	}
	return false
}

// Driver 是 drivers 表的 GORM 模型。
// 驾照号 / 身份证号 / 手机号均要求唯一。
type Driver struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Name          string    `gorm:"size:64;not null"`
	LicenseNumber string    `gorm:"uniqueIndex;size:32;not null"`
	NationalID    string    `gorm:"uniqueIndex;size:32;not null"`
	Phone         string    `gorm:"uniqueIndex;size:32;not null"`
	Status        Status    `gorm:"type:varchar(16);index;not null"`
	HiredAt       *time.Time
	Notes         string    `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
