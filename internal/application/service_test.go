package application

import (
	"context"
	"testing"
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/apperr"
	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// fakeStore 内存实现，Transact 直接执行闭包。
type fakeStore struct {
	apps     map[string]*Application
	vehicles map[string]*vehicle.Vehicle
	drivers  map[string]*driver.Driver
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:     map[string]*Application{},
		vehicles: map[string]*vehicle.Vehicle{},
		drivers:  map[string]*driver.Driver{},
	}
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx Store) error) error { return fn(f) }

func (f *fakeStore) Get(ctx context.Context, id string) (*Application, error) {
	if a, ok := f.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, app *Application) error {
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeStore) Save(ctx context.Context, app *Application) error {
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeStore) List(ctx context.Context, filter ListFilter) ([]Application, int64, error) {
	var out []Application
	for _, a := range f.apps {
		if filter.ApplicantID != "" && a.ApplicantID != filter.ApplicantID {
			continue
		}
		if filter.VehicleID != "" && a.VehicleID != filter.VehicleID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) VehicleForUpdate(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	if v, ok := f.vehicles[id]; ok {
		return v, nil
	}
	return nil, nil
}

func (f *fakeStore) DriverForUpdate(ctx context.Context, id string) (*driver.Driver, error) {
	if d, ok := f.drivers[id]; ok {
		return d, nil
	}
	return nil, nil
}

func (f *fakeStore) ListByVehicleInStatuses(ctx context.Context, vehicleID string, statuses []Status) ([]Application, error) {
	var out []Application
	for _, a := range f.apps {
		if a.VehicleID == vehicleID && statusIn(a.Status, statuses) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByDriverInStatuses(ctx context.Context, driverID string, statuses []Status) ([]Application, error) {
	var out []Application
	for _, a := range f.apps {
		if a.DriverID == driverID && statusIn(a.Status, statuses) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func statusIn(s Status, set []Status) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return testNow }
	return svc
}

func baseInput() CreateInput {
	return CreateInput{
		ApplicantID: "u1",
		Title:       "客户拜访",
		Purpose:     "接送客户",
		Destination: "高新区软件园",
		Passengers:  3,
		StartTime:   at(10, 0),
		EndTime:     at(12, 0),
	}
}

func TestCreateApplication(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	app, err := svc.Create(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.ID == "" || app.Status != StatusPending {
		t.Fatalf("unexpected application: %+v", app)
	}
	if _, ok := store.apps[app.ID]; !ok {
		t.Fatal("application not persisted")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	in := baseInput()
	in.Title = ""
	if _, err := svc.Create(ctx, in); !apperr.IsValidation(err) {
		t.Fatalf("missing title: want validation error, got %v", err)
	}

	in = baseInput()
	in.StartTime, in.EndTime = at(12, 0), at(10, 0)
	if _, err := svc.Create(ctx, in); !apperr.IsValidation(err) {
		t.Fatalf("end before start: want validation error, got %v", err)
	}

	in = baseInput()
	in.StartTime, in.EndTime = at(12, 0), at(12, 0)
	if _, err := svc.Create(ctx, in); !apperr.IsValidation(err) {
		t.Fatalf("zero-length window: want validation error, got %v", err)
	}

	// now = 08:00，过去的开始时间
	in = baseInput()
	in.StartTime, in.EndTime = at(7, 0), at(9, 0)
	if _, err := svc.Create(ctx, in); !apperr.IsValidation(err) {
		t.Fatalf("past start: want validation error, got %v", err)
	}
}

func TestCreateVehicleChecks(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	in := baseInput()
	in.VehicleID = "v-missing"
	if _, err := svc.Create(ctx, in); !apperr.IsNotFound(err) {
		t.Fatalf("unknown vehicle: want not-found error, got %v", err)
	}

	store.vehicles["v1"] = &vehicle.Vehicle{ID: "v1", Status: vehicle.StatusMaintenance}
	in.VehicleID = "v1"
	if _, err := svc.Create(ctx, in); !apperr.IsValidation(err) {
		t.Fatalf("vehicle in maintenance: want validation error, got %v", err)
	}

	store.vehicles["v1"].Status = vehicle.StatusAvailable
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("available vehicle: %v", err)
	}
}

func TestCreateOverlapConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()
	store.vehicles["v1"] = &vehicle.Vehicle{ID: "v1", Status: vehicle.StatusAvailable}

	first := baseInput()
	first.VehicleID = "v1"
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	cases := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{"inside", at(10, 30), at(11, 30), true},
		{"covering", at(9, 0), at(13, 0), true},
		{"touch_end", at(12, 0), at(14, 0), true}, // 端点相接同样冲突
		{"touch_start", at(8, 30), at(10, 0), true},
		{"after", at(12, 1), at(14, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			in.ApplicantID = "u2"
			in.VehicleID = "v1"
			in.StartTime, in.EndTime = tc.start, tc.end
			_, err := svc.Create(ctx, in)
			if tc.wantErr && !apperr.IsConflict(err) {
				t.Fatalf("want conflict error, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateDriverOverlap(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()
	store.drivers["d1"] = &driver.Driver{ID: "d1", Status: driver.StatusAvailable}

	first := baseInput()
	first.DriverID = "d1"
	if _, err := svc.Create(ctx, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := baseInput()
	second.ApplicantID = "u2"
	second.DriverID = "d1"
	second.StartTime, second.EndTime = at(11, 0), at(13, 0)
	if _, err := svc.Create(ctx, second); !apperr.IsConflict(err) {
		t.Fatalf("overlapping driver booking: want conflict error, got %v", err)
	}
}

func TestUpdateApplication(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	app, err := svc.Create(ctx, baseInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 其他普通用户无权编辑，权限不足按校验失败报
	title := "改派"
	if _, err := svc.Update(ctx, app.ID, "u2", []string{RoleUser}, UpdateInput{Title: &title}); !apperr.IsValidation(err) {
		t.Fatalf("other user edit: want validation error, got %v", err)
	}

	// 本人可编辑
	got, err := svc.Update(ctx, app.ID, "u1", []string{RoleUser}, UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "改派" {
		t.Fatalf("Title = %q", got.Title)
	}

	// 改时间段要对合并后的窗口重新校验
	bad := at(7, 0)
	if _, err := svc.Update(ctx, app.ID, "u1", []string{RoleUser}, UpdateInput{StartTime: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("past merged start: want validation error, got %v", err)
	}

	// 审批通过后不可再编辑
	if _, err := svc.Decide(ctx, app.ID, "m1", []string{RoleManager}, ActionApprove, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if _, err := svc.Update(ctx, app.ID, "u1", []string{RoleUser}, UpdateInput{Title: &title}); !apperr.IsValidation(err) {
		t.Fatalf("edit approved application: want validation error, got %v", err)
	}
}

func TestDecide(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	app, _ := svc.Create(ctx, baseInput())

	// 普通用户不可审批
	if _, err := svc.Decide(ctx, app.ID, "u1", []string{RoleUser}, ActionApprove, ""); !apperr.IsValidation(err) {
		t.Fatalf("user decide: want validation error, got %v", err)
	}

	got, err := svc.Decide(ctx, app.ID, "m1", []string{RoleManager}, ActionApprove, "同意")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if got.Status != StatusApproved || got.ApproverID != "m1" || got.Comments != "同意" {
		t.Fatalf("unexpected decided application: %+v", got)
	}
	if got.DecidedAt == nil {
		t.Fatal("DecidedAt not set")
	}

	// 重复审批失败
	if _, err := svc.Decide(ctx, app.ID, "m1", []string{RoleManager}, ActionReject, ""); !apperr.IsValidation(err) {
		t.Fatalf("second decide: want validation error, got %v", err)
	}
}

func TestDecideReject(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	app, _ := svc.Create(ctx, baseInput())
	got, err := svc.Decide(ctx, app.ID, "m1", []string{RoleAdmin}, ActionReject, "车辆已满")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if got.Status != StatusRejected {
		t.Fatalf("Status = %s", got.Status)
	}
	// 驳回为终态
	if _, err := svc.Cancel(ctx, app.ID, "u1", []string{RoleUser}); !apperr.IsValidation(err) {
		t.Fatalf("cancel rejected: want validation error, got %v", err)
	}
}

func TestCancelLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	// 创建 -> 审批通过 -> 取消 -> 再取消失败
	app, err := svc.Create(ctx, baseInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Decide(ctx, app.ID, "m1", []string{RoleManager}, ActionApprove, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	got, err := svc.Cancel(ctx, app.ID, "u1", []string{RoleUser})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != StatusCancelled || got.CanceledAt == nil {
		t.Fatalf("unexpected cancelled application: %+v", got)
	}
	if _, err := svc.Cancel(ctx, app.ID, "u1", []string{RoleUser}); !apperr.IsValidation(err) {
		t.Fatalf("second cancel: want validation error, got %v", err)
	}

	// 他人的申请普通用户也无权取消
	other, err := svc.Create(ctx, baseInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(ctx, other.ID, "u2", []string{RoleUser}); !apperr.IsValidation(err) {
		t.Fatalf("other user cancel: want validation error, got %v", err)
	}
}

func TestTripFlow(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	app, _ := svc.Create(ctx, baseInput())

	// pending 不能直接开始
	if _, err := svc.Start(ctx, app.ID, []string{RoleManager}); !apperr.IsValidation(err) {
		t.Fatalf("start from pending: want validation error, got %v", err)
	}
	if _, err := svc.Decide(ctx, app.ID, "m1", []string{RoleManager}, ActionApprove, ""); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	got, err := svc.Start(ctx, app.ID, []string{RoleManager})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got.Status != StatusInProgress || got.StartedAt == nil {
		t.Fatalf("unexpected started application: %+v", got)
	}
	// 用车中不可取消
	if _, err := svc.Cancel(ctx, app.ID, "u1", []string{RoleAdmin}); !apperr.IsValidation(err) {
		t.Fatalf("cancel in_progress: want validation error, got %v", err)
	}
	got, err = svc.Complete(ctx, app.ID, []string{RoleManager})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Status != StatusCompleted || got.CompletedAt == nil {
		t.Fatalf("unexpected completed application: %+v", got)
	}
}
