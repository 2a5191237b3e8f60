package assignment

import (
	"time"
)

// Status 绑定记录状态枚举（持久化为字符串）。
type Status string

const (
	StatusActive    Status = "active"    // 生效中：车辆与司机当前互相占用
	StatusCompleted Status = "completed" // 已结束
)

// Valid 判断是否为合法状态值。
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Assignment 是 assignments 表的 GORM 模型：司机-车辆绑定记录。
// 业务不变式：任一车辆、任一司机同一时刻至多一条 active 记录。
type Assignment struct {
	ID        string     `gorm:"primaryKey;size:36"`
	DriverID  string     `gorm:"index;size:36;not null"`
	VehicleID string     `gorm:"index;size:36;not null"`
	Status    Status     `gorm:"type:varchar(16);index;not null"`
	StartDate time.Time  `gorm:"not null"`
	EndDate   *time.Time // 结束时写入
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}
