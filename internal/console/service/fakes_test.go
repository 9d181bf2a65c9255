package service

import (
	"context"
	"sync"

	"ride_console/internal/maps"
	"ride_console/internal/rideapi"
	"ride_console/platform/logger"
)

type fakeConfig struct{}

func (fakeConfig) GetDefaultRegion() string  { return "IN" }
func (fakeConfig) GetMapViewportWidth() int  { return 800 }
func (fakeConfig) GetMapViewportHeight() int { return 500 }

type fakeGeocoder struct {
	mu      sync.Mutex
	result  maps.Resolution
	err     error
	calls   int
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address string) (maps.Resolution, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.result, f.err
}

func (f *fakeGeocoder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBackend struct {
	mu sync.Mutex

	rideResult rideapi.RideResult
	rideErr    error
	rideReqs   []rideapi.RideRequest

	registerErr  error
	registerReqs []rideapi.DriverRegistration

	locationErr  error
	locationReqs []rideapi.LocationUpdate

	completeErr error
	completed   []string

	summary      rideapi.Summary
	summaryErr   error
	summaryCalls int
	ongoing      []rideapi.RideSummary
	recent       []rideapi.RideSummary
	top          []rideapi.TopDriver
	locations    []rideapi.DriverLocation
	locationsErr error

	// locationsStarted and locationsGate let a test hold the dashboard fetch
	// open.
	locationsStarted chan struct{}
	locationsGate    chan struct{}

	// ongoingRead is signalled once the ongoing list has been read;
	// ongoingGate then holds the fetch open.
	ongoingRead chan struct{}
	ongoingGate chan struct{}

	completeStarted chan struct{}
	completeGate    chan struct{}
}

func (f *fakeBackend) RequestRide(_ context.Context, req rideapi.RideRequest) (rideapi.RideResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rideReqs = append(f.rideReqs, req)
	return f.rideResult, f.rideErr
}

func (f *fakeBackend) RegisterDriver(_ context.Context, req rideapi.DriverRegistration) (rideapi.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerReqs = append(f.registerReqs, req)
	return rideapi.Ack{Message: "driver registered/updated"}, f.registerErr
}

func (f *fakeBackend) UpdateDriverLocation(_ context.Context, req rideapi.LocationUpdate) (rideapi.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locationReqs = append(f.locationReqs, req)
	return rideapi.Ack{Message: "location updated"}, f.locationErr
}

func (f *fakeBackend) CompleteRide(_ context.Context, rideID string) (rideapi.Ack, error) {
	if f.completeStarted != nil {
		f.completeStarted <- struct{}{}
	}
	if f.completeGate != nil {
		<-f.completeGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, rideID)
	if f.completeErr == nil {
		f.ongoing = removeRide(f.ongoing, rideID)
	}
	return rideapi.Ack{Message: "ride completed"}, f.completeErr
}

func removeRide(rides []rideapi.RideSummary, rideID string) []rideapi.RideSummary {
	out := make([]rideapi.RideSummary, 0, len(rides))
	for _, r := range rides {
		if r.RideID != rideID {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeBackend) Summary(context.Context) (rideapi.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	return f.summary, f.summaryErr
}

func (f *fakeBackend) OngoingRides(context.Context) ([]rideapi.RideSummary, error) {
	f.mu.Lock()
	ongoing := f.ongoing
	read, gate := f.ongoingRead, f.ongoingGate
	f.mu.Unlock()

	if read != nil {
		select {
		case read <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		<-gate
	}
	return ongoing, nil
}

func (f *fakeBackend) RecentRides(context.Context) ([]rideapi.RideSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recent, nil
}

func (f *fakeBackend) TopDrivers(context.Context) ([]rideapi.TopDriver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.top, nil
}

func (f *fakeBackend) DriverLocations(context.Context) ([]rideapi.DriverLocation, error) {
	if f.locationsStarted != nil {
		f.locationsStarted <- struct{}{}
	}
	if f.locationsGate != nil {
		<-f.locationsGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locations, f.locationsErr
}

func (f *fakeBackend) SummaryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaryCalls
}

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (p *recordingPublisher) Publish(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, v.(Snapshot))
}

func (p *recordingPublisher) Versions() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uint64, 0, len(p.snapshots))
	for _, s := range p.snapshots {
		out = append(out, s.Version)
	}
	return out
}

func newTestConsole(api *fakeBackend, geo *fakeGeocoder) *Console {
	if api == nil {
		api = &fakeBackend{}
	}
	if geo == nil {
		geo = &fakeGeocoder{}
	}
	return New(api, geo, nil, fakeConfig{}, logger.Discard())
}
