package service

import (
	"context"
	"fmt"

	"ride_console/internal/mapview"
	"ride_console/internal/rideapi"
	"ride_console/internal/ui"
	"ride_console/platform/apperr"
	"ride_console/platform/phone"
	"ride_console/platform/sanitize"
)

const (
	rideNote = "You can view this ride in the Admin > Ongoing Rides section."

	colorPickup = "#22c55e"
	colorDrop   = "#f97316"
	colorDriver = "#6366f1"
)

// Marker keys of the rider map.
const (
	MarkerPickup = "pickup"
	MarkerDrop   = "drop"
	MarkerDriver = "driver"
)

// rideRequestFrom builds the immutable request sent for one submission.
func (c *Console) rideRequestFrom(form Form) rideapi.RideRequest {
	maxDistance := defaultMaxDistanceKm
	if raw := form.Get(FieldMaxDistanceKm); raw != "" {
		maxDistance = parseNumber(raw)
	}
	return rideapi.RideRequest{
		RiderName:     form.Get(FieldRiderName),
		RiderPhone:    phone.NormalizeE164(form.Get(FieldRiderPhone), c.region),
		PickupAddress: form.Get(FieldPickupAddress),
		PickupLat:     rideapi.Number(parseNumber(form.Get(FieldPickupLat))),
		PickupLon:     rideapi.Number(parseNumber(form.Get(FieldPickupLon))),
		DropAddress:   form.Get(FieldDropAddress),
		DropLat:       rideapi.Number(parseNumber(form.Get(FieldDropLat))),
		DropLon:       rideapi.Number(parseNumber(form.Get(FieldDropLon))),
		MaxDistanceKm: rideapi.Number(maxDistance),
	}
}

func (c *Console) submitRide(ctx context.Context, input Form) error {
	var req rideapi.RideRequest
	release, ok, err := c.begin(func() *ui.Control { return &c.rider.Submit }, "", func() bool {
		c.rider.Form.Merge(input)
		c.rider.Status.Pending("Finding nearest driver...")
		c.rider.Result.Hide()
		req = c.rideRequestFrom(c.rider.Form)
		return true
	})
	if err != nil || !ok {
		return err
	}

	var finish func()
	defer func() { release(finish) }()

	res, err := c.api.RequestRide(ctx, req)
	switch {
	case apperr.Is(err, apperr.KindTransport):
		finish = func() { c.rider.Status.Fail("Network error: " + apperr.MessageOr(err, err.Error())) }
	case err != nil:
		finish = func() { c.rider.Status.Fail(apperr.MessageOr(err, "Something went wrong.")) }
	case !res.Valid():
		message := res.Error
		if message == "" {
			message = "Something went wrong."
		}
		finish = func() { c.rider.Status.Fail(message) }
	default:
		finish = func() { c.paintRide(req, res) }
	}
	return nil
}

// paintRide shows a created ride and replaces the rider markers.
func (c *Console) paintRide(req rideapi.RideRequest, res rideapi.RideResult) {
	c.rider.Status.Success("Ride created successfully!")
	c.rider.Result.Show(RideResultView{
		RideID:      res.RideID,
		DriverName:  res.Driver.Name,
		DriverPhone: res.Driver.Phone,
		DistanceKm:  res.DistanceKm,
		DurationMin: res.DurationMin,
		Fare:        res.Fare,
		Lines: []string{
			"Ride ID: " + res.RideID,
			fmt.Sprintf("Driver: %s (%s)", res.Driver.Name, res.Driver.Phone),
			"Estimated Distance: " + formatNumber(res.DistanceKm) + " km",
			"Estimated Duration: " + formatNumber(res.DurationMin) + " min",
			"Estimated Fare: ₹" + formatNumber(res.Fare),
		},
		Note: rideNote,
	})

	pickup := mapview.LngLat{Lng: req.PickupLon.Float(), Lat: req.PickupLat.Float()}
	drop := mapview.LngLat{Lng: req.DropLon.Float(), Lat: req.DropLat.Float()}

	// The driver is shown at the pickup point.
	markers := []mapview.Marker{
		{Key: MarkerPickup, Color: colorPickup, Position: pickup, Popup: sanitize.Popup("Pickup", req.PickupAddress)},
		{Key: MarkerDrop, Color: colorDrop, Position: drop, Popup: sanitize.Popup("Dropoff", req.DropAddress)},
		{Key: MarkerDriver, Color: colorDriver, Position: pickup, Popup: sanitize.Popup("Driver: "+res.Driver.Name, res.Driver.Phone)},
	}
	if err := c.riderMap.ReplaceMarkers(markers); err != nil {
		// Markers of an earlier ride must not pass for this one.
		c.riderMap.ClearMarkers()
		c.log.Warn("ride markers not placed", "ride_id", res.RideID, "error", err)
		return
	}
	c.riderMap.FitBounds(mapview.BoundsOf(pickup, drop), mapview.FitOptions{Padding: fitPadding, MaxZoom: riderMaxZoom})
}
