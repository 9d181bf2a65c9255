package service

import (
	"context"

	"ride_console/platform/apperr"
)

// Trigger names a user action.
type Trigger string

const (
	TriggerGeocodePickup  Trigger = "rider.geocode_pickup"
	TriggerGeocodeDrop    Trigger = "rider.geocode_drop"
	TriggerRequestRide    Trigger = "rider.request_ride"
	TriggerGeocodeDriver  Trigger = "driver.geocode"
	TriggerRegisterDriver Trigger = "driver.register"
	TriggerUpdateLocation Trigger = "driver.update_location"
	TriggerRefreshAdmin   Trigger = "admin.refresh"
	TriggerCompleteRide   Trigger = "admin.complete_ride"
)

// Action runs one user action against the console. View-level failures are
// painted into the view and are not returned; a returned error means the
// action could not be dispatched at all.
type Action func(ctx context.Context, input Form) error

// Binding ties a trigger to its action.
type Binding struct {
	Trigger Trigger
	Action  Action
}

// Bindings lists every registered action in registration order.
func (c *Console) Bindings() []Binding {
	out := make([]Binding, 0, len(triggerOrder))
	for _, trigger := range triggerOrder {
		out = append(out, c.bindings[trigger])
	}
	return out
}

var triggerOrder = []Trigger{
	TriggerGeocodePickup,
	TriggerGeocodeDrop,
	TriggerRequestRide,
	TriggerGeocodeDriver,
	TriggerRegisterDriver,
	TriggerUpdateLocation,
	TriggerRefreshAdmin,
	TriggerCompleteRide,
}

func (c *Console) registerBindings() map[Trigger]Binding {
	list := []Binding{
		{Trigger: TriggerGeocodePickup, Action: c.geocodeAction(pickupTarget)},
		{Trigger: TriggerGeocodeDrop, Action: c.geocodeAction(dropTarget)},
		{Trigger: TriggerRequestRide, Action: c.submitRide},
		{Trigger: TriggerGeocodeDriver, Action: c.geocodeAction(driverTarget)},
		{Trigger: TriggerRegisterDriver, Action: c.registerDriver},
		{Trigger: TriggerUpdateLocation, Action: c.updateLocation},
		{Trigger: TriggerRefreshAdmin, Action: func(ctx context.Context, _ Form) error {
			return c.loadDashboard(ctx)
		}},
		{Trigger: TriggerCompleteRide, Action: c.completeRide},
	}

	bindings := make(map[Trigger]Binding, len(list))
	for _, b := range list {
		bindings[b.Trigger] = b
	}
	return bindings
}

// Dispatch runs the action bound to trigger with input merged over the
// relevant form.
func (c *Console) Dispatch(ctx context.Context, trigger Trigger, input Form) error {
	binding, ok := c.bindings[trigger]
	if !ok {
		return apperr.BadRequest("unknown action " + string(trigger))
	}
	if input == nil {
		input = Form{}
	}
	c.log.WithContext(ctx).Debug("dispatch", "trigger", string(trigger))
	return binding.Action(ctx, input)
}
