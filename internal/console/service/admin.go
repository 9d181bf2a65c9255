package service

import (
	"context"
	"fmt"
	"strings"

	"ride_console/internal/mapview"
	"ride_console/internal/rideapi"
	"ride_console/internal/ui"
	"ride_console/platform/apperr"
	"ride_console/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardFlightKey = "admin"

	colorAvailable = "#22c55e"
	colorOnRide    = "#facc15"
	colorOther     = "#6b7280"
)

// dashboard is the joined result of the five admin fetches.
type dashboard struct {
	summary   rideapi.Summary
	ongoing   []rideapi.RideSummary
	recent    []rideapi.RideSummary
	top       []rideapi.TopDriver
	locations []rideapi.DriverLocation
}

// loadDashboard refreshes the admin view. Overlapping calls share one load.
func (c *Console) loadDashboard(ctx context.Context) error {
	// The shared load must not die with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	_, err, _ := c.flight.Do(dashboardFlightKey, func() (any, error) {
		c.loadMu.Lock()
		defer c.loadMu.Unlock()
		return nil, c.refreshDashboard(shared)
	})
	return err
}

// reloadDashboard starts a load whose fetches all begin after the call. A
// load already in flight may have read stale lists, so it is not joined;
// the new one waits for it to finish and then fetches again.
func (c *Console) reloadDashboard(ctx context.Context) error {
	c.flight.Forget(dashboardFlightKey)
	return c.loadDashboard(ctx)
}

func (c *Console) refreshDashboard(ctx context.Context) error {
	release, ok, err := c.begin(func() *ui.Control { return &c.admin.Refresh }, "", func() bool {
		c.admin.Summary = SummaryPanel{}
		c.admin.Summary.Status.Pending("Loading...")
		c.admin.Ongoing.clear()
		c.admin.Recent.clear()
		c.admin.TopDrivers.clear()
		return true
	})
	if err != nil || !ok {
		return err
	}

	var finish func()
	defer func() { release(finish) }()

	data, err := c.fetchDashboard(ctx)
	if err != nil {
		c.log.WithContext(ctx).Warn("admin dashboard load failed", "error", err)
		finish = func() {
			c.admin.Summary.Status.Fail("Failed to load admin data.")
		}
		return nil
	}

	finish = func() { c.paintDashboard(data) }
	return nil
}

// fetchDashboard issues the five reads concurrently and joins them. The
// first failure cancels the rest.
func (c *Console) fetchDashboard(ctx context.Context) (dashboard, error) {
	var data dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := c.api.Summary(gctx)
		data.summary = summary
		return wrapFetch("summary", err)
	})
	g.Go(func() error {
		ongoing, err := c.api.OngoingRides(gctx)
		data.ongoing = ongoing
		return wrapFetch("ongoing rides", err)
	})
	g.Go(func() error {
		recent, err := c.api.RecentRides(gctx)
		data.recent = recent
		return wrapFetch("recent rides", err)
	})
	g.Go(func() error {
		top, err := c.api.TopDrivers(gctx)
		data.top = top
		return wrapFetch("top drivers", err)
	})
	g.Go(func() error {
		locations, err := c.api.DriverLocations(gctx)
		data.locations = locations
		return wrapFetch("driver locations", err)
	})

	if err := g.Wait(); err != nil {
		return dashboard{}, err
	}
	return data, nil
}

func wrapFetch(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fetch %s: %w", what, err)
}

func (c *Console) paintDashboard(data dashboard) {
	c.admin.Summary = SummaryPanel{Items: []SummaryItem{
		{Label: "Total Rides", Value: data.summary.TotalRides},
		{Label: "Completed", Value: data.summary.CompletedRides},
		{Label: "Ongoing", Value: data.summary.OngoingRides},
	}}

	c.admin.Ongoing = ListPanel{Rows: make([]ListRow, 0, len(data.ongoing))}
	for _, r := range data.ongoing {
		complete := ui.NewControl("Complete")
		c.admin.Ongoing.Rows = append(c.admin.Ongoing.Rows, ListRow{
			Key:      r.RideID,
			Title:    "Ride: " + r.RideID,
			Meta:     rideMeta(r),
			Badge:    Badge{Text: strings.ToUpper(r.Status), Color: "yellow"},
			Complete: &complete,
		})
	}
	if len(data.ongoing) == 0 {
		c.admin.Ongoing.Placeholder = "No ongoing rides."
	}

	c.admin.Recent = ListPanel{Rows: make([]ListRow, 0, len(data.recent))}
	for _, r := range data.recent {
		color := "blue"
		if r.Status == "completed" {
			color = "green"
		}
		c.admin.Recent.Rows = append(c.admin.Recent.Rows, ListRow{
			Key:   r.RideID,
			Title: "Ride: " + r.RideID,
			Meta:  rideMeta(r),
			Badge: Badge{Text: strings.ToUpper(r.Status), Color: color},
		})
	}
	if len(data.recent) == 0 {
		c.admin.Recent.Placeholder = "No rides yet."
	}

	c.admin.TopDrivers = ListPanel{Rows: make([]ListRow, 0, len(data.top))}
	for _, d := range data.top {
		c.admin.TopDrivers.Rows = append(c.admin.TopDrivers.Rows, ListRow{
			Key:   d.Phone,
			Title: fmt.Sprintf("%s (%s)", d.Name, d.Phone),
			Meta:  fmt.Sprintf("Rating: %s • Rides: %d", formatNumber(d.Rating), d.TotalRides),
			Badge: Badge{Text: "TOP", Color: "blue"},
		})
	}
	if len(data.top) == 0 {
		c.admin.TopDrivers.Placeholder = "No drivers yet."
	}

	c.paintDriverMarkers(data.locations)
}

func rideMeta(r rideapi.RideSummary) string {
	return fmt.Sprintf("Fare: ₹%s • Distance: %s km", formatNumber(r.Fare), formatOptional(r.DistanceKm))
}

// paintDriverMarkers replaces every admin marker with one per location and
// fits the map to them when there are any.
func (c *Console) paintDriverMarkers(locations []rideapi.DriverLocation) {
	markers := make([]mapview.Marker, 0, len(locations))
	var bounds mapview.Bounds
	for i, d := range locations {
		pos := mapview.LngLat{Lng: d.Lon, Lat: d.Lat}
		markers = append(markers, mapview.Marker{
			Key:      fmt.Sprintf("driver:%d:%s", i, d.DriverID),
			Color:    statusColor(d.Status),
			Position: pos,
			Popup:    sanitize.Popup(d.Name, d.Phone, "Status: "+d.Status),
		})
		bounds = bounds.Extend(pos)
	}

	if err := c.adminMap.ReplaceMarkers(markers); err != nil {
		c.log.Warn("driver markers not placed", "count", len(markers), "error", err)
		return
	}
	if !bounds.IsEmpty() {
		c.adminMap.FitBounds(bounds, mapview.FitOptions{Padding: fitPadding, MaxZoom: adminMaxZoom})
	}
}

func statusColor(status string) string {
	switch status {
	case "available":
		return colorAvailable
	case "on_ride":
		return colorOnRide
	default:
		return colorOther
	}
}

// completeRide runs the per-row "complete" action. A success reloads the
// dashboard exactly once.
func (c *Console) completeRide(ctx context.Context, input Form) error {
	rideID := input.Trimmed(FieldRideID)
	if rideID == "" {
		return apperr.Validation("ride_id is required")
	}

	var listed bool
	release, ok, err := c.begin(func() *ui.Control {
		row := c.admin.Ongoing.row(rideID)
		if row == nil || row.Complete == nil {
			return &ui.Control{Enabled: true}
		}
		listed = true
		return row.Complete
	}, "Completing...", func() bool { return listed })
	if err != nil {
		return err
	}
	if !listed {
		return apperr.NotFound("ride " + rideID + " is not an ongoing ride")
	}
	if !ok {
		return nil
	}

	if c.sendCompletion(ctx, rideID, release) {
		return c.reloadDashboard(ctx)
	}
	return nil
}

// sendCompletion calls the backend and paints the outcome as a blocking
// notification. It reports whether the ride was completed.
func (c *Console) sendCompletion(ctx context.Context, rideID string, release func(finish func())) bool {
	var finish func()
	defer func() { release(finish) }()

	_, err := c.api.CompleteRide(ctx, rideID)
	switch {
	case apperr.Is(err, apperr.KindTransport):
		finish = func() { c.alerts.Push("Network error: " + apperr.MessageOr(err, err.Error())) }
	case err != nil:
		finish = func() { c.alerts.Push("Failed to complete ride: " + apperr.MessageOr(err, "Unknown error")) }
	default:
		finish = func() { c.alerts.Push("Ride completed!") }
	}
	return err == nil
}
