package assignment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
	"github.com/google/uuid"
)

// Manager 维护“一辆车至多一个生效司机、一个司机至多一辆生效车辆”的不变式。
// 绑定记录 + 司机状态 + 车辆状态的三路写入在一个事务内完成，失败整体回滚。
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Assign 把司机绑定到车辆：创建 active 记录，司机置 busy，车辆置 in_use。
func (m *Manager) Assign(ctx context.Context, driverID, vehicleID string) (*Assignment, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("manager not initialized")
	}
	driverID = strings.TrimSpace(driverID)
	vehicleID = strings.TrimSpace(vehicleID)
	if driverID == "" || vehicleID == "" {
		return nil, apperr.Validation("driver_id/vehicle_id required")
	}

	var out *Assignment
	err := m.store.Transact(ctx, func(tx Store) error {
		a, err := m.assignLocked(ctx, tx, driverID, vehicleID)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// assignLocked 在事务内执行校验 + 三路写入；调用方负责事务边界。
func (m *Manager) assignLocked(ctx context.Context, tx Store, driverID, vehicleID string) (*Assignment, error) {
	d, err := tx.DriverForUpdate(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("driver not found: %s", driverID)
	}
	v, err := tx.VehicleForUpdate(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("vehicle not found: %s", vehicleID)
	}

	if d.Status != driver.StatusAvailable {
		return nil, apperr.Validation("driver is not available: %s", d.Status)
	}
	if v.Status != vehicle.StatusAvailable {
		return nil, apperr.Validation("vehicle is not available: %s", v.Status)
	}
	if cur, err := tx.ActiveByVehicle(ctx, vehicleID); err != nil {
		return nil, err
	} else if cur != nil {
		return nil, apperr.Validation("vehicle already has an active assignment")
	}
	if cur, err := tx.ActiveByDriver(ctx, driverID); err != nil {
		return nil, err
	} else if cur != nil {
		return nil, apperr.Validation("driver already has an active assignment")
	}

	a := &Assignment{
		ID:        uuid.NewString(),
		DriverID:  driverID,
		VehicleID: vehicleID,
		Status:    StatusActive,
		StartDate: time.Now(),
	}
	if err := tx.Create(ctx, a); err != nil {
		return nil, err
	}
	if err := tx.SetDriverStatus(ctx, driverID, driver.StatusBusy); err != nil {
		return nil, err
	}
	if err := tx.SetVehicleStatus(ctx, vehicleID, vehicle.StatusInUse); err != nil {
		return nil, err
	}
	return a, nil
}

// Unassign 解绑司机当前的生效记录：记录置 completed 并写结束时间，
// 司机与车辆都恢复 available。
func (m *Manager) Unassign(ctx context.Context, driverID string) (*Assignment, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("manager not initialized")
	}
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, apperr.Validation("driver_id required")
	}

	var out *Assignment
	err := m.store.Transact(ctx, func(tx Store) error {
		d, err := tx.DriverForUpdate(ctx, driverID)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.NotFound("driver not found: %s", driverID)
		}

		a, err := tx.ActiveByDriver(ctx, driverID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.Validation("driver has no active assignment")
		}

		if err := m.completeLocked(ctx, tx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// completeLocked 结束一条生效记录并释放司机与车辆。
func (m *Manager) completeLocked(ctx context.Context, tx Store, a *Assignment) error {
	now := time.Now()
	a.Status = StatusCompleted
	a.EndDate = &now
	if err := tx.Save(ctx, a); err != nil {
		return err
	}
	if err := tx.SetDriverStatus(ctx, a.DriverID, driver.StatusAvailable); err != nil {
		return err
	}
	return tx.SetVehicleStatus(ctx, a.VehicleID, vehicle.StatusAvailable)
}

// Reassign 编辑车辆的司机字段：结束旧绑定，按需创建新绑定。
// 新旧司机相同则为 no-op。newDriverID 为空表示仅解绑。
func (m *Manager) Reassign(ctx context.Context, vehicleID, newDriverID string) (*Assignment, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("manager not initialized")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	newDriverID = strings.TrimSpace(newDriverID)
	if vehicleID == "" {
		return nil, apperr.Validation("vehicle_id required")
	}

	var out *Assignment
	err := m.store.Transact(ctx, func(tx Store) error {
		v, err := tx.VehicleForUpdate(ctx, vehicleID)
		if err != nil {
			return err
		}
		if v == nil {
			return apperr.NotFound("vehicle not found: %s", vehicleID)
		}

		cur, err := tx.ActiveByVehicle(ctx, vehicleID)
		if err != nil {
			return err
		}
		// 新旧司机一致：无需任何变更
		if cur != nil && cur.DriverID == newDriverID {
			out = cur
			return nil
		}

		if cur != nil {
			if err := m.completeLocked(ctx, tx, cur); err != nil {
				return err
			}
		}
		if newDriverID == "" {
			return nil
		}

		a, err := m.assignLocked(ctx, tx, newDriverID, vehicleID)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
