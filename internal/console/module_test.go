package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ride_console/internal/console/service"
	apphttp "ride_console/internal/http"
	"ride_console/internal/maps"
	"ride_console/internal/rideapi"
	"ride_console/platform/logger"

	"github.com/gin-gonic/gin"
)

type stubConfig struct{}

func (stubConfig) GetDefaultRegion() string  { return "IN" }
func (stubConfig) GetMapViewportWidth() int  { return 800 }
func (stubConfig) GetMapViewportHeight() int { return 500 }

type stubGeocoder struct{}

func (stubGeocoder) Resolve(context.Context, string) (maps.Resolution, error) {
	return maps.Resolution{Lat: 12.9352, Lon: 77.6245, Place: "Koramangala"}, nil
}

type stubBackend struct{}

func (stubBackend) RequestRide(context.Context, rideapi.RideRequest) (rideapi.RideResult, error) {
	return rideapi.RideResult{RideID: "R1", Driver: &rideapi.DriverContact{Name: "A", Phone: "123"}, DistanceKm: 5.2, DurationMin: 14, Fare: 120}, nil
}
func (stubBackend) RegisterDriver(context.Context, rideapi.DriverRegistration) (rideapi.Ack, error) {
	return rideapi.Ack{}, nil
}
func (stubBackend) UpdateDriverLocation(context.Context, rideapi.LocationUpdate) (rideapi.Ack, error) {
	return rideapi.Ack{}, nil
}
func (stubBackend) CompleteRide(context.Context, string) (rideapi.Ack, error) {
	return rideapi.Ack{}, nil
}
func (stubBackend) Summary(context.Context) (rideapi.Summary, error) {
	return rideapi.Summary{TotalRides: 1, OngoingRides: 1}, nil
}
func (stubBackend) OngoingRides(context.Context) ([]rideapi.RideSummary, error) {
	return []rideapi.RideSummary{{RideID: "R1", Status: "ongoing", Fare: 120}}, nil
}
func (stubBackend) RecentRides(context.Context) ([]rideapi.RideSummary, error) { return nil, nil }
func (stubBackend) TopDrivers(context.Context) ([]rideapi.TopDriver, error)   { return nil, nil }
func (stubBackend) DriverLocations(context.Context) ([]rideapi.DriverLocation, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *Module) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	module := NewModule(stubBackend{}, stubGeocoder{}, nil, stubConfig{}, nil, logger.Discard())
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})
	return engine, module
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, service.Snapshot) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var snap service.Snapshot
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
	}
	return rec, snap
}

func TestGeocodeRouteReturnsSnapshot(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec, snap := do(t, engine, http.MethodPost, "/api/v1/rider/geocode/pickup", `{"pickup_address":"Koramangala, Bangalore"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if snap.Rider.Status.Text != "Pickup location found: Koramangala" {
		t.Fatalf("unexpected status %q", snap.Rider.Status.Text)
	}
}

func TestRideRoute(t *testing.T) {
	engine, _ := newTestRouter(t)

	body := `{"pickup_lat":"12.9716","pickup_lon":"77.5946","drop_lat":"12.9352","drop_lon":"77.6146"}`
	rec, snap := do(t, engine, http.MethodPost, "/api/v1/rider/rides", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(snap.RiderMap.Markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(snap.RiderMap.Markers))
	}
}

func TestEmptyBodyIsEmptyForm(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec, snap := do(t, engine, http.MethodPost, "/api/v1/driver/geocode", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d", rec.Code)
	}
	if len(snap.Alerts) != 1 || snap.Alerts[0].Message != "Please enter a driver address first." {
		t.Fatalf("unexpected alerts %+v", snap.Alerts)
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec, _ := do(t, engine, http.MethodPost, "/api/v1/driver/register", `{"name": 5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUnknownTabIsBadRequest(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec, _ := do(t, engine, http.MethodPost, "/api/v1/console/tabs/settings", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec, snap := do(t, engine, http.MethodPost, "/api/v1/console/tabs/driver", "")
	if rec.Code != http.StatusOK || snap.Tab != service.TabDriver {
		t.Fatalf("expected driver tab, got %d %q", rec.Code, snap.Tab)
	}
}

func TestCompleteRideRoute(t *testing.T) {
	engine, module := newTestRouter(t)
	module.Start(context.Background())

	rec, snap := do(t, engine, http.MethodPost, "/api/v1/admin/rides/R1/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(snap.Alerts) != 1 || snap.Alerts[0].Message != "Ride completed!" {
		t.Fatalf("unexpected alerts %+v", snap.Alerts)
	}

	rec, snap = do(t, engine, http.MethodPost, "/api/v1/alerts/ack", `{"id":"`+snap.Alerts[0].ID+`"}`)
	if rec.Code != http.StatusOK || len(snap.Alerts) != 0 {
		t.Fatalf("expected alert acknowledged, got %d %+v", rec.Code, snap.Alerts)
	}

	rec, _ = do(t, engine, http.MethodPost, "/api/v1/admin/rides/R404/complete", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unlisted ride, got %d", rec.Code)
	}
}

func TestGetConsole(t *testing.T) {
	engine, module := newTestRouter(t)

	rec, snap := do(t, engine, http.MethodGet, "/api/v1/console", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if snap.ID != module.Service().ID() || snap.Tab != service.TabRider {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestEveryFormBindingIsRouted(t *testing.T) {
	engine, module := newTestRouter(t)

	routed := 0
	for _, binding := range module.Service().Bindings() {
		route, ok := actionRoutes[binding.Trigger]
		if !ok {
			continue
		}
		routed++
		rec, _ := do(t, engine, http.MethodPost, "/api/v1"+route.path, "")
		if rec.Code == http.StatusNotFound {
			t.Fatalf("%s: route %s not mounted", binding.Trigger, route.path)
		}
	}
	if routed != len(actionRoutes) {
		t.Fatalf("expected %d routed bindings, got %d", len(actionRoutes), routed)
	}
}
