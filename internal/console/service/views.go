package service

import (
	"slices"

	"ride_console/internal/mapview"
	"ride_console/internal/ui"
)

// Tab names.
type Tab string

const (
	TabRider  Tab = "rider"
	TabDriver Tab = "driver"
	TabAdmin  Tab = "admin"
)

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, bool) {
	switch tab := Tab(name); tab {
	case TabRider, TabDriver, TabAdmin:
		return tab, true
	}
	return "", false
}

// RideResultView is the content of the rider result panel.
type RideResultView struct {
	RideID      string   `json:"ride_id"`
	DriverName  string   `json:"driver_name"`
	DriverPhone string   `json:"driver_phone"`
	DistanceKm  float64  `json:"distance_km"`
	DurationMin float64  `json:"duration_min"`
	Fare        float64  `json:"fare"`
	Lines       []string `json:"lines"`
	Note        string   `json:"note"`
}

// RiderView is the rider tab.
type RiderView struct {
	Form          Form                     `json:"form"`
	Status        ui.Status                `json:"status"`
	Result        ui.Panel[RideResultView] `json:"result"`
	PickupGeocode ui.Control               `json:"pickup_geocode"`
	DropGeocode   ui.Control               `json:"drop_geocode"`
	Submit        ui.Control               `json:"submit"`
}

// DriverView is the driver tab: registration and location update forms.
type DriverView struct {
	RegisterForm   Form       `json:"register_form"`
	RegisterStatus ui.Status  `json:"register_status"`
	Register       ui.Control `json:"register"`
	LocationForm   Form       `json:"location_form"`
	LocationStatus ui.Status  `json:"location_status"`
	Geocode        ui.Control `json:"geocode"`
	UpdateLocation ui.Control `json:"update_location"`
}

// SummaryItem is one counter tile.
type SummaryItem struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// SummaryPanel shows either a status line (loading or failure) or counters.
type SummaryPanel struct {
	Status ui.Status     `json:"status"`
	Items  []SummaryItem `json:"items"`
}

// Badge is a coloured status tag.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// ListRow is one entry of an admin list.
type ListRow struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Meta  string `json:"meta"`
	Badge Badge  `json:"badge"`
	// Complete is set on ongoing ride rows only.
	Complete *ui.Control `json:"complete,omitempty"`
}

// ListPanel is an admin list with its empty-state placeholder.
type ListPanel struct {
	Placeholder string    `json:"placeholder,omitempty"`
	Rows        []ListRow `json:"rows"`
}

func (p *ListPanel) clear() {
	*p = ListPanel{}
}

func (p ListPanel) clone() ListPanel {
	out := ListPanel{Placeholder: p.Placeholder, Rows: slices.Clone(p.Rows)}
	for i, row := range out.Rows {
		if row.Complete != nil {
			ctl := *row.Complete
			out.Rows[i].Complete = &ctl
		}
	}
	return out
}

// row returns the row with key, or nil.
func (p *ListPanel) row(key string) *ListRow {
	for i := range p.Rows {
		if p.Rows[i].Key == key {
			return &p.Rows[i]
		}
	}
	return nil
}

// AdminView is the admin dashboard.
type AdminView struct {
	Summary    SummaryPanel `json:"summary"`
	Ongoing    ListPanel    `json:"ongoing"`
	Recent     ListPanel    `json:"recent"`
	TopDrivers ListPanel    `json:"top_drivers"`
	Refresh    ui.Control   `json:"refresh"`
}

// Snapshot is a consistent copy of the whole console view.
type Snapshot struct {
	ID       string           `json:"id"`
	Version  uint64           `json:"version"`
	Tab      Tab              `json:"tab"`
	Rider    RiderView        `json:"rider"`
	Driver   DriverView       `json:"driver"`
	Admin    AdminView        `json:"admin"`
	RiderMap mapview.Snapshot `json:"rider_map"`
	AdminMap mapview.Snapshot `json:"admin_map"`
	Alerts   []ui.Alert       `json:"alerts"`
}

func (v RiderView) clone() RiderView {
	v.Form = v.Form.Clone()
	if v.Result.Content != nil {
		content := *v.Result.Content
		content.Lines = slices.Clone(content.Lines)
		v.Result.Content = &content
	}
	return v
}

func (v DriverView) clone() DriverView {
	v.RegisterForm = v.RegisterForm.Clone()
	v.LocationForm = v.LocationForm.Clone()
	return v
}

func (v AdminView) clone() AdminView {
	v.Summary.Items = slices.Clone(v.Summary.Items)
	v.Ongoing = v.Ongoing.clone()
	v.Recent = v.Recent.clone()
	v.TopDrivers = v.TopDrivers.clone()
	return v
}
