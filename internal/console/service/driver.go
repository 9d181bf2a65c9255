package service

import (
	"context"

	"ride_console/internal/rideapi"
	"ride_console/internal/ui"
	"ride_console/platform/apperr"
	"ride_console/platform/phone"
)

func (c *Console) registerDriver(ctx context.Context, input Form) error {
	var req rideapi.DriverRegistration
	release, ok, err := c.begin(func() *ui.Control { return &c.driver.Register }, "", func() bool {
		c.driver.RegisterForm.Merge(input)
		c.driver.RegisterStatus.Pending("Saving driver...")
		form := c.driver.RegisterForm
		req = rideapi.DriverRegistration{
			Name:         form.Get(FieldName),
			Phone:        phone.NormalizeE164(form.Get(FieldPhone), c.region),
			Email:        form.Get(FieldEmail),
			VehicleType:  form.Get(FieldVehicleType),
			VehicleModel: form.Get(FieldVehicleModel),
			PlateNumber:  form.Get(FieldPlateNumber),
		}
		if req.VehicleType == "" {
			req.VehicleType = defaultVehicleType
		}
		return true
	})
	if err != nil || !ok {
		return err
	}

	var finish func()
	defer func() { release(finish) }()

	_, err = c.api.RegisterDriver(ctx, req)
	finish = func() {
		paintSubmission(&c.driver.RegisterStatus, err, "Driver saved successfully!", "Failed to save driver.")
	}
	return nil
}

func (c *Console) updateLocation(ctx context.Context, input Form) error {
	var req rideapi.LocationUpdate
	release, ok, err := c.begin(func() *ui.Control { return &c.driver.UpdateLocation }, "", func() bool {
		c.driver.LocationForm.Merge(input)
		c.driver.LocationStatus.Pending("Updating location...")
		form := c.driver.LocationForm
		req = rideapi.LocationUpdate{
			Phone:  phone.NormalizeE164(form.Get(FieldPhone), c.region),
			Lat:    rideapi.Number(parseNumber(form.Get(FieldLat))),
			Lon:    rideapi.Number(parseNumber(form.Get(FieldLon))),
			Status: form.Get(FieldStatus),
		}
		if req.Status == "" {
			req.Status = defaultDriverStatus
		}
		return true
	})
	if err != nil || !ok {
		return err
	}

	var finish func()
	defer func() { release(finish) }()

	_, err = c.api.UpdateDriverLocation(ctx, req)
	finish = func() {
		paintSubmission(&c.driver.LocationStatus, err, "Location updated!", "Failed to update.")
	}
	return nil
}

// paintSubmission renders the outcome of a collect → submit → status flow.
func paintSubmission(status *ui.Status, err error, success, fallback string) {
	switch {
	case err == nil:
		status.Success(success)
	case apperr.Is(err, apperr.KindTransport):
		status.Fail("Network error: " + apperr.MessageOr(err, err.Error()))
	default:
		status.Fail(apperr.MessageOr(err, fallback))
	}
}
