package service

import (
	"context"

	"ride_console/internal/mapview"
	"ride_console/internal/ui"
	"ride_console/platform/apperr"
)

// geocodeTarget describes one "address → coordinates" control. The three
// geocode bindings differ only in these fields.
type geocodeTarget struct {
	noun         string
	addressField string
	latField     string
	lonField     string
	foundPrefix  string
	failedText   string

	form    func(c *Console) Form
	status  func(c *Console) *ui.Status
	control func(c *Console) *ui.Control
	view    func(c *Console) *mapview.Map
}

const locatingLabel = "Locating..."

var pickupTarget = geocodeTarget{
	noun:         "pickup",
	addressField: FieldPickupAddress,
	latField:     FieldPickupLat,
	lonField:     FieldPickupLon,
	foundPrefix:  "Pickup location found: ",
	failedText:   "Pickup geocoding failed.",
	form:         func(c *Console) Form { return c.rider.Form },
	status:       func(c *Console) *ui.Status { return &c.rider.Status },
	control:      func(c *Console) *ui.Control { return &c.rider.PickupGeocode },
	view:         func(c *Console) *mapview.Map { return c.riderMap },
}

var dropTarget = geocodeTarget{
	noun:         "dropoff",
	addressField: FieldDropAddress,
	latField:     FieldDropLat,
	lonField:     FieldDropLon,
	foundPrefix:  "Dropoff location found: ",
	failedText:   "Dropoff geocoding failed.",
	form:         func(c *Console) Form { return c.rider.Form },
	status:       func(c *Console) *ui.Status { return &c.rider.Status },
	control:      func(c *Console) *ui.Control { return &c.rider.DropGeocode },
	view:         func(c *Console) *mapview.Map { return c.riderMap },
}

// driverTarget fills the location update form and recentres the admin map,
// where driver markers live.
var driverTarget = geocodeTarget{
	noun:         "driver",
	addressField: FieldDriverAddress,
	latField:     FieldLat,
	lonField:     FieldLon,
	foundPrefix:  "Location found: ",
	failedText:   "Driver geocoding failed.",
	form:         func(c *Console) Form { return c.driver.LocationForm },
	status:       func(c *Console) *ui.Status { return &c.driver.LocationStatus },
	control:      func(c *Console) *ui.Control { return &c.driver.Geocode },
	view:         func(c *Console) *mapview.Map { return c.adminMap },
}

func (c *Console) geocodeAction(t geocodeTarget) Action {
	return func(ctx context.Context, input Form) error {
		return c.geocode(ctx, t, input)
	}
}

func (c *Console) geocode(ctx context.Context, t geocodeTarget, input Form) error {
	var address string
	release, ok, err := c.begin(func() *ui.Control { return t.control(c) }, locatingLabel, func() bool {
		form := t.form(c)
		form.Merge(input)
		address = form.Trimmed(t.addressField)
		if address == "" {
			c.alerts.Push("Please enter a " + t.noun + " address first.")
			return false
		}
		return true
	})
	if err != nil || !ok {
		return err
	}

	var finish func()
	defer func() { release(finish) }()

	res, err := c.geo.Resolve(ctx, address)
	if err != nil {
		c.log.WithContext(ctx).Info("geocode failed", "target", t.noun, "error", err)
		finish = func() {
			c.alerts.Push("Could not find " + t.noun + " location: " + apperr.MessageOr(err, err.Error()))
			t.status(c).Fail(t.failedText)
		}
		return nil
	}

	finish = func() {
		form := t.form(c)
		form[t.latField] = formatCoordinate(res.Lat)
		form[t.lonField] = formatCoordinate(res.Lon)
		t.status(c).Success(t.foundPrefix + res.Place)
		if err := t.view(c).SetView(mapview.LngLat{Lng: res.Lon, Lat: res.Lat}, resolvedZoom); err != nil {
			c.log.Warn("recentre map failed", "map", t.view(c).Name(), "error", err)
		}
	}
	return nil
}
