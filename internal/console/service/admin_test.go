package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"ride_console/internal/rideapi"
	"ride_console/internal/ui"
	"ride_console/platform/apperr"
)

func populatedBackend() *fakeBackend {
	distance := 3.1
	return &fakeBackend{
		summary: rideapi.Summary{TotalRides: 10, CompletedRides: 7, OngoingRides: 1},
		ongoing: []rideapi.RideSummary{{RideID: "R1", Status: "ongoing", Fare: 99.5}},
		recent: []rideapi.RideSummary{
			{RideID: "R1", Status: "ongoing", Fare: 99.5},
			{RideID: "R0", Status: "completed", Fare: 50, DistanceKm: &distance},
		},
		top: []rideapi.TopDriver{{Name: "A", Phone: "123", Rating: 4.9, TotalRides: 12}},
		locations: []rideapi.DriverLocation{
			{DriverID: "D1", Name: "A", Phone: "123", Status: "available", Lat: 12.97, Lon: 77.59},
			{DriverID: "D2", Name: "B", Phone: "456", Status: "on_ride", Lat: 12.93, Lon: 77.62},
			{DriverID: "D3", Name: "C", Phone: "789", Status: "offline", Lat: 13.01, Lon: 77.55},
		},
	}
}

func TestRefreshRendersAllPanels(t *testing.T) {
	c := newTestConsole(populatedBackend(), nil)

	if err := c.Dispatch(context.Background(), TriggerRefreshAdmin, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := c.Snapshot().Admin
	if len(s.Summary.Items) != 3 || s.Summary.Items[0] != (SummaryItem{Label: "Total Rides", Value: 10}) {
		t.Fatalf("unexpected summary %+v", s.Summary)
	}
	row := s.Ongoing.Rows[0]
	if row.Title != "Ride: R1" || row.Meta != "Fare: ₹99.5 • Distance: n/a km" {
		t.Fatalf("unexpected ongoing row %+v", row)
	}
	if row.Badge != (Badge{Text: "ONGOING", Color: "yellow"}) || row.Complete == nil || !row.Complete.Enabled {
		t.Fatalf("unexpected ongoing row controls %+v", row)
	}
	if s.Recent.Rows[0].Badge.Color != "blue" || s.Recent.Rows[1].Badge != (Badge{Text: "COMPLETED", Color: "green"}) {
		t.Fatalf("unexpected recent badges %+v", s.Recent.Rows)
	}
	if s.Recent.Rows[1].Meta != "Fare: ₹50 • Distance: 3.1 km" {
		t.Fatalf("unexpected recent meta %q", s.Recent.Rows[1].Meta)
	}
	if s.TopDrivers.Rows[0].Title != "A (123)" || s.TopDrivers.Rows[0].Meta != "Rating: 4.9 • Rides: 12" {
		t.Fatalf("unexpected top driver %+v", s.TopDrivers.Rows[0])
	}
	if !s.Refresh.Enabled {
		t.Fatal("expected refresh restored")
	}
}

func TestRefreshPaintsDriverMarkersByStatus(t *testing.T) {
	c := newTestConsole(populatedBackend(), nil)
	_ = c.Dispatch(context.Background(), TriggerRefreshAdmin, nil)

	m := c.Snapshot().AdminMap
	if len(m.Markers) != 3 {
		t.Fatalf("expected 3 driver markers, got %d", len(m.Markers))
	}
	colors := []string{m.Markers[0].Color, m.Markers[1].Color, m.Markers[2].Color}
	if colors[0] != "#22c55e" || colors[1] != "#facc15" || colors[2] != "#6b7280" {
		t.Fatalf("unexpected colours %v", colors)
	}
	if m.Markers[0].Popup != "A\n123\nStatus: available" {
		t.Fatalf("unexpected popup %q", m.Markers[0].Popup)
	}
	if m.Camera.Zoom > 13 {
		t.Fatalf("expected zoom capped at 13, got %v", m.Camera.Zoom)
	}
	if m.Camera.Center.Lat < 12.93 || m.Camera.Center.Lat > 13.01 {
		t.Fatalf("expected camera over the drivers, got %+v", m.Camera.Center)
	}
}

func TestRefreshEmptyListsShowPlaceholders(t *testing.T) {
	c := newTestConsole(&fakeBackend{}, nil)
	_ = c.Dispatch(context.Background(), TriggerRefreshAdmin, nil)

	s := c.Snapshot()
	if s.Admin.Ongoing.Placeholder != "No ongoing rides." || s.Admin.Recent.Placeholder != "No rides yet." || s.Admin.TopDrivers.Placeholder != "No drivers yet." {
		t.Fatalf("unexpected placeholders %+v", s.Admin)
	}
	if s.AdminMap.Camera.Zoom != defaultZoom {
		t.Fatal("expected camera untouched without locations")
	}
}

func TestRefreshRendersOnlyAfterAllFetchesJoin(t *testing.T) {
	api := populatedBackend()
	api.locationsStarted = make(chan struct{}, 1)
	api.locationsGate = make(chan struct{})
	c := newTestConsole(api, nil)

	done := make(chan error, 1)
	go func() { done <- c.Dispatch(context.Background(), TriggerRefreshAdmin, nil) }()
	<-api.locationsStarted

	mid := c.Snapshot().Admin
	if mid.Summary.Status.Text != "Loading..." || len(mid.Summary.Items) != 0 {
		t.Fatalf("expected loading summary, got %+v", mid.Summary)
	}
	if len(mid.Ongoing.Rows) != 0 || len(mid.Recent.Rows) != 0 || len(mid.TopDrivers.Rows) != 0 {
		t.Fatal("expected no panel rendered before the join")
	}
	if mid.Refresh.Enabled {
		t.Fatal("expected refresh disabled while loading")
	}

	close(api.locationsGate)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Snapshot().Admin.Ongoing.Rows) != 1 {
		t.Fatal("expected panels rendered after the join")
	}
}

func TestRefreshFailureShowsIndicatorAndKeepsMarkers(t *testing.T) {
	api := populatedBackend()
	c := newTestConsole(api, nil)
	ctx := context.Background()
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)
	before := c.Snapshot().AdminMap

	api.locationsErr = apperr.Transport(errors.New("connection reset"))
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)

	s := c.Snapshot()
	if s.Admin.Summary.Status.Text != "Failed to load admin data." || s.Admin.Summary.Status.Class != ui.ClassError {
		t.Fatalf("unexpected summary %+v", s.Admin.Summary)
	}
	if len(s.Admin.Summary.Items) != 0 {
		t.Fatal("expected counters replaced by the indicator")
	}
	assertSameMarkers(t, before.Markers, s.AdminMap.Markers)
	if !s.Admin.Refresh.Enabled {
		t.Fatal("expected refresh restored after failure")
	}
}

func TestOverlappingRefreshesShareOneLoad(t *testing.T) {
	api := populatedBackend()
	api.locationsStarted = make(chan struct{}, 2)
	api.locationsGate = make(chan struct{})
	c := newTestConsole(api, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Dispatch(context.Background(), TriggerRefreshAdmin, nil)
	}()
	<-api.locationsStarted

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Dispatch(context.Background(), TriggerRefreshAdmin, nil)
	}()
	// Give the second refresh time to join the in-flight load.
	time.Sleep(50 * time.Millisecond)

	close(api.locationsGate)
	wg.Wait()

	if api.SummaryCalls() != 1 {
		t.Fatalf("expected overlapping refreshes coalesced, got %d loads", api.SummaryCalls())
	}
}

func TestCompleteRideReloadsExactlyOnce(t *testing.T) {
	api := populatedBackend()
	c := newTestConsole(api, nil)
	ctx := context.Background()
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)
	loads := api.SummaryCalls()

	if err := c.Dispatch(ctx, TriggerCompleteRide, Form{FieldRideID: "R1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := api.SummaryCalls() - loads; got != 1 {
		t.Fatalf("expected exactly one reload, got %d", got)
	}
	s := c.Snapshot()
	if len(api.completed) != 1 || api.completed[0] != "R1" {
		t.Fatalf("unexpected completions %v", api.completed)
	}
	if len(s.Alerts) != 1 || s.Alerts[0].Message != "Ride completed!" {
		t.Fatalf("unexpected alerts %+v", s.Alerts)
	}
}

func TestCompleteRideReloadDoesNotJoinStaleRefresh(t *testing.T) {
	api := populatedBackend()
	c := newTestConsole(api, nil)
	ctx := context.Background()
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)
	loads := api.SummaryCalls()

	api.mu.Lock()
	api.completeStarted = make(chan struct{}, 1)
	api.completeGate = make(chan struct{})
	api.ongoingRead = make(chan struct{}, 1)
	api.ongoingGate = make(chan struct{})
	api.mu.Unlock()

	completed := make(chan error, 1)
	go func() { completed <- c.Dispatch(ctx, TriggerCompleteRide, Form{FieldRideID: "R1"}) }()
	<-api.completeStarted

	// A refresh reads the ongoing list while R1 is still ongoing.
	refreshed := make(chan error, 1)
	go func() { refreshed <- c.Dispatch(ctx, TriggerRefreshAdmin, nil) }()
	<-api.ongoingRead

	close(api.completeGate)
	// Give the post-completion reload time to reach the in-flight refresh.
	time.Sleep(50 * time.Millisecond)
	close(api.ongoingGate)

	if err := <-completed; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := <-refreshed; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rows := c.Snapshot().Admin.Ongoing.Rows; len(rows) != 0 {
		t.Fatalf("expected completed ride gone from ongoing list, got %+v", rows)
	}
	if got := api.SummaryCalls() - loads; got != 2 {
		t.Fatalf("expected the refresh and one reload, got %d loads", got)
	}
}

func TestCompleteRideRejectionAlertsWithoutReload(t *testing.T) {
	api := populatedBackend()
	c := newTestConsole(api, nil)
	ctx := context.Background()
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)
	loads := api.SummaryCalls()

	api.completeErr = apperr.Upstream(http.StatusNotFound, "ride not found")
	_ = c.Dispatch(ctx, TriggerCompleteRide, Form{FieldRideID: "R1"})

	s := c.Snapshot()
	if api.SummaryCalls() != loads {
		t.Fatal("expected no reload after a rejection")
	}
	if len(s.Alerts) != 1 || s.Alerts[0].Message != "Failed to complete ride: ride not found" {
		t.Fatalf("unexpected alerts %+v", s.Alerts)
	}
	if !s.Admin.Ongoing.Rows[0].Complete.Enabled {
		t.Fatal("expected row control restored")
	}
}

func TestCompleteRideFallbackAndNetworkTexts(t *testing.T) {
	api := populatedBackend()
	c := newTestConsole(api, nil)
	ctx := context.Background()
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)

	api.completeErr = apperr.Upstream(http.StatusInternalServerError, "")
	_ = c.Dispatch(ctx, TriggerCompleteRide, Form{FieldRideID: "R1"})
	api.completeErr = apperr.Transport(errors.New("timeout"))
	_ = c.Dispatch(ctx, TriggerCompleteRide, Form{FieldRideID: "R1"})

	got := c.Snapshot().Alerts
	if len(got) != 2 || got[0].Message != "Failed to complete ride: Unknown error" || got[1].Message != "Network error: timeout" {
		t.Fatalf("unexpected alerts %+v", got)
	}
}

func TestCompleteRideUnknownRide(t *testing.T) {
	c := newTestConsole(populatedBackend(), nil)
	ctx := context.Background()
	_ = c.Dispatch(ctx, TriggerRefreshAdmin, nil)

	err := c.Dispatch(ctx, TriggerCompleteRide, Form{FieldRideID: "nope"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := c.Dispatch(ctx, TriggerCompleteRide, Form{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusColor(t *testing.T) {
	if statusColor("available") != colorAvailable || statusColor("on_ride") != colorOnRide || statusColor("") != colorOther {
		t.Fatal("unexpected status colour mapping")
	}
}
