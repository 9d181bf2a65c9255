package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Form is the string state of an input form, keyed by field name.
type Form map[string]string

// Get returns the raw value of key.
func (f Form) Get(key string) string {
	return f[key]
}

// Trimmed returns the value of key without surrounding whitespace.
func (f Form) Trimmed(key string) string {
	return strings.TrimSpace(f[key])
}

// Merge overwrites f with every field in other.
func (f Form) Merge(other Form) {
	for k, v := range other {
		f[k] = v
	}
}

// Clone returns an independent copy.
func (f Form) Clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Form field names shared with clients.
const (
	FieldRiderName     = "rider_name"
	FieldRiderPhone    = "rider_phone"
	FieldPickupAddress = "pickup_address"
	FieldPickupLat     = "pickup_lat"
	FieldPickupLon     = "pickup_lon"
	FieldDropAddress   = "drop_address"
	FieldDropLat       = "drop_lat"
	FieldDropLon       = "drop_lon"
	FieldMaxDistanceKm = "max_distance_km"

	FieldName         = "name"
	FieldPhone        = "phone"
	FieldEmail        = "email"
	FieldVehicleType  = "vehicle_type"
	FieldVehicleModel = "vehicle_model"
	FieldPlateNumber  = "plate_number"

	FieldDriverAddress = "driver_address"
	FieldLat           = "lat"
	FieldLon           = "lon"
	FieldStatus        = "status"

	FieldRideID = "ride_id"
)

const (
	defaultMaxDistanceKm = 5.0
	defaultVehicleType   = "car"
	defaultDriverStatus  = "available"
)

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseNumber reads the longest numeric prefix of s after leading
// whitespace. Input with no numeric prefix yields NaN, which is sent to the
// backend unvalidated.
func parseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	match := floatPrefix.FindString(s)
	if match == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(match, "+-") {
	case "Infinity":
		if strings.HasPrefix(match, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	// ErrRange still yields ±Inf, matching an overflowing literal.
	f, _ := strconv.ParseFloat(match, 64)
	return f
}

// formatNumber renders f the way the backend's numbers read in a browser.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return formatNumber(*f)
}

// formatCoordinate writes a resolved coordinate back into a form field.
func formatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
