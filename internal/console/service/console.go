// Package service owns the console's view state and the actions that drive
// it: address resolution, ride requests, driver forms and the admin
// dashboard. View mutations are serialised by one lock; network calls run
// outside it.
package service

import (
	"context"
	"sync"

	"ride_console/internal/maps"
	"ride_console/internal/mapview"
	"ride_console/internal/rideapi"
	"ride_console/internal/ui"
	"ride_console/platform/apperr"
	"ride_console/platform/config"
	"ride_console/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Backend is the ride-booking API.
type Backend interface {
	RequestRide(ctx context.Context, req rideapi.RideRequest) (rideapi.RideResult, error)
	RegisterDriver(ctx context.Context, req rideapi.DriverRegistration) (rideapi.Ack, error)
	UpdateDriverLocation(ctx context.Context, req rideapi.LocationUpdate) (rideapi.Ack, error)
	CompleteRide(ctx context.Context, rideID string) (rideapi.Ack, error)
	Summary(ctx context.Context) (rideapi.Summary, error)
	OngoingRides(ctx context.Context) ([]rideapi.RideSummary, error)
	RecentRides(ctx context.Context) ([]rideapi.RideSummary, error)
	TopDrivers(ctx context.Context) ([]rideapi.TopDriver, error)
	DriverLocations(ctx context.Context) ([]rideapi.DriverLocation, error)
}

// Geocoder resolves a free-text address to its best match.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (maps.Resolution, error)
}

// Publisher receives a snapshot after every view change.
type Publisher interface {
	Publish(v any)
}

// Map defaults.
var defaultCenter = mapview.LngLat{Lng: 77.5946, Lat: 12.9716}

const (
	defaultZoom = 11
	// resolvedZoom is the closer zoom used after a successful geocode.
	resolvedZoom = 13
	fitPadding   = 60
	riderMaxZoom = 14
	adminMaxZoom = 13
)

// Console is one headless console session.
type Console struct {
	id     string
	api    Backend
	geo    Geocoder
	pub    Publisher
	region string
	log    *logger.Logger

	mu       sync.Mutex
	version  uint64
	tab      Tab
	rider    RiderView
	driver   DriverView
	admin    AdminView
	riderMap *mapview.Map
	adminMap *mapview.Map
	alerts   ui.Alerts
	closed   bool
	bindings map[Trigger]Binding

	// flight coalesces dashboard loads; loadMu keeps at most one running.
	flight singleflight.Group
	loadMu sync.Mutex
}

// New constructs a console with default view state. pub may be nil.
func New(api Backend, geo Geocoder, pub Publisher, cfg config.ConsoleConfig, log *logger.Logger) *Console {
	size := mapview.Size{Width: cfg.GetMapViewportWidth(), Height: cfg.GetMapViewportHeight()}

	c := &Console{
		id:     uuid.NewString(),
		api:    api,
		geo:    geo,
		pub:    pub,
		region: cfg.GetDefaultRegion(),
		tab:    TabRider,
		rider: RiderView{
			Form:          Form{},
			Result:        ui.HiddenPanel[RideResultView](),
			PickupGeocode: ui.NewControl("Use address"),
			DropGeocode:   ui.NewControl("Use address"),
			Submit:        ui.NewControl("Request Ride"),
		},
		driver: DriverView{
			RegisterForm:   Form{FieldVehicleType: defaultVehicleType},
			Register:       ui.NewControl("Save Driver"),
			LocationForm:   Form{FieldStatus: defaultDriverStatus},
			Geocode:        ui.NewControl("Use address"),
			UpdateLocation: ui.NewControl("Update Location"),
		},
		admin: AdminView{
			Refresh: ui.NewControl("Refresh"),
		},
		riderMap: mapview.New("rider", defaultCenter, defaultZoom, size),
		adminMap: mapview.New("admin", defaultCenter, defaultZoom, size),
	}
	c.log = log.WithContext(logger.ContextWithConsoleID(context.Background(), c.id))
	c.bindings = c.registerBindings()

	return c
}

// ID returns the console session ID.
func (c *Console) ID() string { return c.id }

// Start performs the initial dashboard load.
func (c *Console) Start(ctx context.Context) {
	c.publishCurrent()
	c.loadDashboard(ctx)
}

// Close ends the session. Later actions fail with KindUnavailable.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Snapshot returns a consistent copy of the view.
func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Health reports liveness details for the health endpoint.
func (c *Console) Health() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]any{
		"console_id": c.id,
		"version":    c.version,
		"closed":     c.closed,
	}
}

// SelectTab activates a tab and asks both maps to recompute their size.
func (c *Console) SelectTab(name string) error {
	tab, ok := ParseTab(name)
	if !ok {
		return apperr.BadRequest("unknown tab " + name)
	}
	return c.update(func() {
		c.tab = tab
		c.riderMap.Resize(mapview.Size{})
		c.adminMap.Resize(mapview.Size{})
	})
}

// AckAlert dismisses a blocking notification, the oldest when id is empty.
func (c *Console) AckAlert(id string) error {
	var found bool
	err := c.update(func() {
		found = c.alerts.Ack(id)
	})
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("no such alert")
	}
	return nil
}

func (c *Console) snapshotLocked() Snapshot {
	return Snapshot{
		ID:       c.id,
		Version:  c.version,
		Tab:      c.tab,
		Rider:    c.rider.clone(),
		Driver:   c.driver.clone(),
		Admin:    c.admin.clone(),
		RiderMap: c.riderMap.Snapshot(),
		AdminMap: c.adminMap.Snapshot(),
		Alerts:   c.alerts.Items(),
	}
}

// update applies fn under the lock and publishes the result.
func (c *Console) update(fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return apperr.Unavailable("console closed")
	}
	fn()
	c.commitLocked()
	return nil
}

// commitLocked bumps the version and publishes. Publishing happens under
// the lock so subscribers see versions in order.
func (c *Console) commitLocked() {
	c.version++
	if c.pub != nil {
		c.pub.Publish(c.snapshotLocked())
	}
}

func (c *Console) publishCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pub != nil {
		c.pub.Publish(c.snapshotLocked())
	}
}

// begin runs prepare and disables the control picked by ctl in one view
// update. It returns ok=false without touching the view when the control is
// already busy or prepare declines. The returned release restores the
// control in its own update; flows fold their final paint into it via
// finish.
func (c *Console) begin(ctl func() *ui.Control, pending string, prepare func() bool) (release func(finish func()), ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, apperr.Unavailable("console closed")
	}
	control := ctl()
	if control.Busy() {
		return nil, false, nil
	}
	if prepare != nil && !prepare() {
		c.commitLocked()
		return nil, false, nil
	}
	restore := control.Disable(pending)
	c.commitLocked()

	return func(finish func()) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if finish != nil {
			finish()
		}
		restore()
		c.commitLocked()
	}, true, nil
}
