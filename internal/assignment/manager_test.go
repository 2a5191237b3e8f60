package assignment

import (
	"context"
	"testing"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// fakeStore Store 的内存实现，测试用。
type fakeStore struct {
	vehicles    map[string]*vehicle.Vehicle
	drivers     map[string]*driver.Driver
	assignments map[string]*Assignment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles:    make(map[string]*vehicle.Vehicle),
		drivers:     make(map[string]*driver.Driver),
		assignments: make(map[string]*Assignment),
	}
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(f)
}

func (f *fakeStore) VehicleForUpdate(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	return f.vehicles[id], nil
}

func (f *fakeStore) DriverForUpdate(ctx context.Context, id string) (*driver.Driver, error) {
	return f.drivers[id], nil
}

func (f *fakeStore) ActiveByVehicle(ctx context.Context, vehicleID string) (*Assignment, error) {
	for _, a := range f.assignments {
		if a.VehicleID == vehicleID && a.Status == StatusActive {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ActiveByDriver(ctx context.Context, driverID string) (*Assignment, error) {
	for _, a := range f.assignments {
		if a.DriverID == driverID && a.Status == StatusActive {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, a *Assignment) error {
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeStore) Save(ctx context.Context, a *Assignment) error {
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeStore) SetVehicleStatus(ctx context.Context, id string, status vehicle.Status) error {
	f.vehicles[id].Status = status
	return nil
}

func (f *fakeStore) SetDriverStatus(ctx context.Context, id string, status driver.Status) error {
	f.drivers[id].Status = status
	return nil
}

func (f *fakeStore) List(ctx context.Context, driverID, vehicleID string, status Status, offset, limit int) ([]Assignment, int64, error) {
	var out []Assignment
	for _, a := range f.assignments {
		if driverID != "" && a.DriverID != driverID {
			continue
		}
		if vehicleID != "" && a.VehicleID != vehicleID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) addVehicle(id string, st vehicle.Status) {
	f.vehicles[id] = &vehicle.Vehicle{ID: id, PlateNumber: "plate-" + id, Status: st}
}

func (f *fakeStore) addDriver(id string, st driver.Status) {
	f.drivers[id] = &driver.Driver{ID: id, Name: "driver-" + id, Status: st}
}

func (f *fakeStore) countByStatus(st Status) int {
	n := 0
	for _, a := range f.assignments {
		if a.Status == st {
			n++
		}
	}
	return n
}

func TestAssignSetsStatusesAndCreatesActiveRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	a, err := m.Assign(ctx, "d1", "v1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if a.Status != StatusActive {
		t.Fatalf("expected active assignment, got %s", a.Status)
	}
	if store.drivers["d1"].Status != driver.StatusBusy {
		t.Fatalf("expected driver busy, got %s", store.drivers["d1"].Status)
	}
	if store.vehicles["v1"].Status != vehicle.StatusInUse {
		t.Fatalf("expected vehicle in_use, got %s", store.vehicles["v1"].Status)
	}
	if n := store.countByStatus(StatusActive); n != 1 {
		t.Fatalf("expected exactly 1 active assignment, got %d", n)
	}
}

func TestAssignVehicleAlreadyAssignedFailsWithoutPartialMutation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addDriver("d2", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	if _, err := m.Assign(ctx, "d1", "v1"); err != nil {
		t.Fatalf("first Assign: %v", err)
	}

	_, err := m.Assign(ctx, "d2", "v1")
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := len(store.assignments); n != 1 {
		t.Fatalf("expected no new assignment row, got %d rows", n)
	}
	if store.drivers["d2"].Status != driver.StatusAvailable {
		t.Fatalf("expected d2 untouched, got %s", store.drivers["d2"].Status)
	}
	if store.vehicles["v1"].Status != vehicle.StatusInUse {
		t.Fatalf("expected v1 still in_use, got %s", store.vehicles["v1"].Status)
	}
}

func TestAssignUnknownDriver(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	_, err := m.Assign(ctx, "ghost", "v1")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAssignUnavailableDriver(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusOnLeave)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	_, err := m.Assign(ctx, "d1", "v1")
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnassignThenAssignAgain(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	first, err := m.Assign(ctx, "d1", "v1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	done, err := m.Unassign(ctx, "d1")
	if err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if done.Status != StatusCompleted || done.EndDate == nil {
		t.Fatalf("expected completed assignment with end date, got %+v", done)
	}
	if store.drivers["d1"].Status != driver.StatusAvailable {
		t.Fatalf("expected driver available after unassign")
	}
	if store.vehicles["v1"].Status != vehicle.StatusAvailable {
		t.Fatalf("expected vehicle available after unassign")
	}

	second, err := m.Assign(ctx, "d1", "v1")
	if err != nil {
		t.Fatalf("re-Assign: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a new assignment row, got same id")
	}
	if second.Status != StatusActive {
		t.Fatalf("expected new assignment active, got %s", second.Status)
	}
	if store.countByStatus(StatusActive) != 1 || store.countByStatus(StatusCompleted) != 1 {
		t.Fatalf("expected 1 active + 1 completed, got %d/%d",
			store.countByStatus(StatusActive), store.countByStatus(StatusCompleted))
	}
}

func TestUnassignWithoutActiveAssignment(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	m := NewManager(store)

	_, err := m.Unassign(ctx, "d1")
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReassignSwitchesDriver(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addDriver("d2", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	old, err := m.Assign(ctx, "d1", "v1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	a, err := m.Reassign(ctx, "v1", "d2")
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if a.DriverID != "d2" || a.Status != StatusActive {
		t.Fatalf("expected new active assignment for d2, got %+v", a)
	}
	if store.assignments[old.ID].Status != StatusCompleted {
		t.Fatalf("expected old assignment completed")
	}
	if store.drivers["d1"].Status != driver.StatusAvailable {
		t.Fatalf("expected d1 released")
	}
	if store.drivers["d2"].Status != driver.StatusBusy {
		t.Fatalf("expected d2 busy")
	}
	if store.vehicles["v1"].Status != vehicle.StatusInUse {
		t.Fatalf("expected vehicle in_use")
	}
}

func TestReassignSameDriverIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	first, err := m.Assign(ctx, "d1", "v1")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	a, err := m.Reassign(ctx, "v1", "d1")
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if a.ID != first.ID {
		t.Fatalf("expected no-op to keep the same assignment")
	}
	if len(store.assignments) != 1 {
		t.Fatalf("expected single assignment row, got %d", len(store.assignments))
	}
}

func TestReassignEmptyDriverUnbindsOnly(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	m := NewManager(store)

	if _, err := m.Assign(ctx, "d1", "v1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	a, err := m.Reassign(ctx, "v1", "")
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if a != nil {
		t.Fatalf("expected no new assignment, got %+v", a)
	}
	if store.vehicles["v1"].Status != vehicle.StatusAvailable {
		t.Fatalf("expected vehicle released")
	}
	if store.drivers["d1"].Status != driver.StatusAvailable {
		t.Fatalf("expected driver released")
	}
}
