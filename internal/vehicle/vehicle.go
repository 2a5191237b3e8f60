package vehicle

import (
	"time"
)

// Status 车辆状态枚举（持久化为字符串）。
type Status string

const (
	StatusAvailable   Status = "available"   // 可用，未被派车/用车占用
	StatusInUse       Status = "in_use"      // 使用中（存在生效的司机绑定）
	StatusMaintenance Status = "maintenance" // 维修保养中
	StatusRetired     Status = "retired"     // 已退役（不做物理删除）
)

// Valid 判断是否为合法状态值。
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}

// Vehicle 是 vehicles 表的 GORM 模型。
type Vehicle struct {
	ID          string    `gorm:"primaryKey;size:36"`
	PlateNumber string    `gorm:"uniqueIndex;size:32;not null"`
	VIN         string    `gorm:"size:64"`
	Brand       string    `gorm:"size:64"`
	Model       string    `gorm:"size:64"`
	Seats       int       `gorm:"not null;default:5"`
	Status      Status    `gorm:"type:varchar(16);index;not null"`
	Notes       string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
