package application

import (
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
)

// Status 用车申请状态。
type Status string

const (
	StatusPending    Status = "pending"     // 待审批
	StatusApproved   Status = "approved"    // 已通过
	StatusRejected   Status = "rejected"    // 已驳回
	StatusInProgress Status = "in_progress" // 用车中
	StatusCompleted  Status = "completed"   // 已完成
	StatusCancelled  Status = "cancelled"   // 已取消
)

// Valid 判断状态值是否合法。
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AllowTransition 申请状态机的合法迁移表。
// rejected / cancelled / completed 为终态，不再迁出。
var AllowTransition = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusRejected:   {},
	StatusCancelled:  {},
	StatusCompleted:  {},
}

// CanTransition 判断 from -> to 是否允许。
// 注意 from == to 也视为非法：重复审批、重复取消都应被拒绝。
func CanTransition(from, to Status) bool {
	for _, s := range AllowTransition[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 执行状态迁移并维护对应的时间字段。
func ApplyTransition(app *Application, to Status, now time.Time) error {
	if !CanTransition(app.Status, to) {
		return apperr.Validation("status transition %s -> %s is not allowed", app.Status, to)
	}
	app.Status = to
	switch to {
	case StatusApproved, StatusRejected:
		app.DecidedAt = &now
	case StatusInProgress:
		app.StartedAt = &now
	case StatusCompleted:
		app.CompletedAt = &now
	case StatusCancelled:
		app.CanceledAt = &now
	}
	return nil
}
