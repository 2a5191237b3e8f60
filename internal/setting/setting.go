package setting

import "time"

// Setting 是 settings 表的 GORM 模型：运行期可调的业务开关与参数。
type Setting struct {
	Key         string    `gorm:"primaryKey;size:64"`
	Value       string    `gorm:"size:512;not null"`
	Description string    `gorm:"size:255"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
