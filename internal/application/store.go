package application

import (
	"context"

	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// ListFilter 申请列表的筛选条件，零值字段不参与过滤。
type ListFilter struct {
	ApplicantID string
	VehicleID   string
	DriverID    string
	Status      Status
	Offset      int
	Limit       int
}

// Store 是申请模块的存储抽象。
// 查询单条记录不存在时返回 (nil, nil)，由上层决定是否视为错误。
// Transact 内传入的 Store 绑定到同一事务；ForUpdate 系列在事务内持有行锁，
// 用于创建申请时的冲突检查，避免并发下对同一车辆/司机重复预订。
type Store interface {
	Transact(ctx context.Context, fn func(tx Store) error) error

	Get(ctx context.Context, id string) (*Application, error)
	Create(ctx context.Context, app *Application) error
	Save(ctx context.Context, app *Application) error
	List(ctx context.Context, f ListFilter) ([]Application, int64, error)

	VehicleForUpdate(ctx context.Context, id string) (*vehicle.Vehicle, error)
	DriverForUpdate(ctx context.Context, id string) (*driver.Driver, error)

	// 按车辆/司机查询处于指定状态集合内的申请，供时间段冲突检查使用。
	ListByVehicleInStatuses(ctx context.Context, vehicleID string, statuses []Status) ([]Application, error)
	ListByDriverInStatuses(ctx context.Context, driverID string, statuses []Status) ([]Application, error)
}
