package assignment

import (
	"context"

	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// Store 派车流程依赖的持久化接口。
//
// 约定：
// - 查询不到实体/记录时返回 (nil, nil)，由上层决定如何报错
// - Transact 内回调拿到的 Store 共享同一事务；ForUpdate 查询在 SQL 实现里
//   对行加锁，用于序列化同一车辆/司机上的并发写
//
// 通过接口注入而非包级单例，测试可替换为内存假实现。
type Store interface {
	Transact(ctx context.Context, fn func(tx Store) error) error

	VehicleForUpdate(ctx context.Context, id string) (*vehicle.Vehicle, error)
	DriverForUpdate(ctx context.Context, id string) (*driver.Driver, error)

	ActiveByVehicle(ctx context.Context, vehicleID string) (*Assignment, error)
	ActiveByDriver(ctx context.Context, driverID string) (*Assignment, error)

	Create(ctx context.Context, a *Assignment) error
	Save(ctx context.Context, a *Assignment) error

	// List 按司机/车辆/状态过滤的分页查询，零值条件不过滤。
	List(ctx context.Context, driverID, vehicleID string, status Status, offset, limit int) ([]Assignment, int64, error)

	SetVehicleStatus(ctx context.Context, id string, status vehicle.Status) error
	SetDriverStatus(ctx context.Context, id string, status driver.Status) error
}
