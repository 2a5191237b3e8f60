package maintenance

import "time"

// Record 是 maintenance_records 表的 GORM 模型：车辆维保记录。
// 金额以分为单位，避免浮点误差。
type Record struct {
	ID          string    `gorm:"primaryKey;size:36"`
	VehicleID   string    `gorm:"index;size:36;not null"`
	Type        string    `gorm:"size:64;not null"` // 保养/维修/年检等
	Description string    `gorm:"size:255"`
	CostCents   int64     `gorm:"not null;default:0"`
	OdometerKm  int       `gorm:"not null;default:0"`
	PerformedAt time.Time `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
