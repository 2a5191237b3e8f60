package assignment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SmartFleet/SmartFleet/internal/driver"
	"github.com/SmartFleet/SmartFleet/internal/vehicle"
)

// Handler 只依赖 Store 接口，这里全程用内存假实现跑 HTTP 层。
func newTestRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(NewManager(store), store).RegisterRoutes(api)
	return r
}

func TestHandlerAssignAndList(t *testing.T) {
	store := newFakeStore()
	store.addDriver("d1", driver.StatusAvailable)
	store.addVehicle("v1", vehicle.StatusAvailable)
	r := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments",
		strings.NewReader(`{"driver_id":"d1","vehicle_id":"v1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("assign status = %d, body = %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assignments?driver_id=d1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Assignments []assignmentResp `json:"assignments"`
			Total       int64            `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Total != 1 || len(resp.Data.Assignments) != 1 {
		t.Fatalf("unexpected list payload: %s", w.Body.String())
	}
	got := resp.Data.Assignments[0]
	if got.DriverID != "d1" || got.VehicleID != "v1" || got.Status != string(StatusActive) {
		t.Fatalf("unexpected assignment: %+v", got)
	}

	// 过滤不中时返回空
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assignments?driver_id=d2", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Total != 0 {
		t.Fatalf("want empty list, got %s", w.Body.String())
	}
}
