package expense

import "time"

// Expense 是 expenses 表的 GORM 模型：车辆费用（油费/过路费/保险等）。
// 金额以分为单位。
type Expense struct {
	ID          string    `gorm:"primaryKey;size:36"`
	VehicleID   string    `gorm:"index;size:36;not null"`
	Category    string    `gorm:"size:64;not null"`
	AmountCents int64     `gorm:"not null;default:0"`
	IncurredAt  time.Time `gorm:"index;not null"`
	Notes       string    `gorm:"size:255"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
