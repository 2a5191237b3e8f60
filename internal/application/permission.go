package application

// 调用方角色，与 user 模块的角色取值保持一致。
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// IsApprover 判断调用方是否具备审批角色（manager 或 admin）。
func IsApprover(roles []string) bool {
	for _, r := range roles {
		if r == RoleManager || r == RoleAdmin {
			return true
		}
	}
	return false
}

// CanModify 申请的编辑/取消权限：
// manager 与 admin 可操作任意申请，普通用户仅能操作本人提交的申请。
func CanModify(roles []string, callerID string, app *Application) bool {
	if IsApprover(roles) {
		return true
	}
	return callerID != "" && callerID == app.ApplicantID
}
