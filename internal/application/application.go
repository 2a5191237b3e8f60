package application

import (
	"time"
)

// Application 是 applications 表的 GORM 模型：用车申请。
// VehicleID / DriverID 可为空，表示申请时未指定车辆/司机。
type Application struct {
	ID          string `gorm:"primaryKey;size:36"`
	ApplicantID string `gorm:"index;size:36;not null"` // 申请人
	VehicleID   string `gorm:"index;size:36"`          // 申请车辆（可选）
	DriverID    string `gorm:"index;size:36"`          // 申请司机（可选）

	Title       string    `gorm:"size:128;not null"`
	Purpose     string    `gorm:"size:255;not null"`
	Destination string    `gorm:"size:255;not null"`
	Passengers  int       `gorm:"not null;default:1"`
	StartTime   time.Time `gorm:"index;not null"`
	EndTime     time.Time `gorm:"not null"`
	Notes       string    `gorm:"size:255"`

	Status     Status `gorm:"type:varchar(16);index;not null"`
	ApproverID string `gorm:"size:36"`  // 审批人
	Comments   string `gorm:"size:255"` // 审批意见

	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	DecidedAt   *time.Time // 审批时间（通过/驳回）
	StartedAt   *time.Time // 行程开始时间
	CompletedAt *time.Time // 行程结束时间
	CanceledAt  *time.Time // 取消时间
}
