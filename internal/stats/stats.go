package stats

// Dashboard 仪表盘汇总数据。
type Dashboard struct {
	Vehicles struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"by_status"`
	} `json:"vehicles"`
	Drivers struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"by_status"`
	} `json:"drivers"`
	Applications struct {
		Total   int64 `json:"total"`
		Pending int64 `json:"pending"`
	} `json:"applications"`
	ActiveAssignments int64 `json:"active_assignments"`

	// 当月维保花费与费用支出（分）。
	MonthMaintenanceCents int64 `json:"month_maintenance_cents"`
	MonthExpenseCents     int64 `json:"month_expense_cents"`

	GeneratedAt int64 `json:"generated_at"`
}
