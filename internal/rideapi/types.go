package rideapi

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float sent as-is to the backend. NaN and infinities encode as
// null so unparseable form input reaches the backend, which rejects it.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// RideRequest is the body of POST /api/riders/request-ride.
type RideRequest struct {
	RiderName     string `json:"rider_name"`
	RiderPhone    string `json:"rider_phone"`
	PickupAddress string `json:"pickup_address"`
	PickupLat     Number `json:"pickup_lat"`
	PickupLon     Number `json:"pickup_lon"`
	DropAddress   string `json:"drop_address"`
	DropLat       Number `json:"drop_lat"`
	DropLon       Number `json:"drop_lon"`
	MaxDistanceKm Number `json:"max_distance_km"`
}

// DriverContact is the assigned driver on a created ride.
type DriverContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RideResult is the response of a ride request.
type RideResult struct {
	Message     string         `json:"message,omitempty"`
	RideID      string         `json:"ride_id"`
	Driver      *DriverContact `json:"driver"`
	DistanceKm  float64        `json:"distance_km"`
	DurationMin float64        `json:"duration_min"`
	Fare        float64        `json:"fare"`
	Error       string         `json:"error,omitempty"`
}

// Valid reports whether the payload identifies a created ride.
func (r RideResult) Valid() bool {
	return r.RideID != "" && r.Driver != nil
}

// DriverRegistration is the body of POST /api/drivers/register.
type DriverRegistration struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	VehicleType  string `json:"vehicle_type"`
	VehicleModel string `json:"vehicle_model"`
	PlateNumber  string `json:"plate_number"`
}

// LocationUpdate is the body of POST /api/drivers/location.
type LocationUpdate struct {
	Phone  string `json:"phone"`
	Lat    Number `json:"lat"`
	Lon    Number `json:"lon"`
	Status string `json:"status"`
}

// Ack is the generic mutation response.
type Ack struct {
	Message  string `json:"message,omitempty"`
	DriverID string `json:"driver_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary holds the dashboard counters.
type Summary struct {
	TotalRides     int `json:"total_rides"`
	CompletedRides int `json:"completed_rides"`
	OngoingRides   int `json:"ongoing_rides"`
}

// RideSummary is one row of the ongoing or recent ride lists.
type RideSummary struct {
	RideID      string   `json:"ride_id"`
	Status      string   `json:"status"`
	Fare        float64  `json:"fare"`
	DistanceKm  *float64 `json:"distance_km"`
	DriverID    string   `json:"driver_id,omitempty"`
	RiderID     string   `json:"rider_id,omitempty"`
	RequestedAt *string  `json:"requested_at,omitempty"`
}

// TopDriver is one row of the top drivers list.
type TopDriver struct {
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Rating     float64 `json:"rating"`
	TotalRides int     `json:"total_rides"`
}

// DriverLocation is a driver's last reported position.
type DriverLocation struct {
	DriverID string  `json:"driver_id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Status   string  `json:"status"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

type completeRideRequest struct {
	RideID string `json:"ride_id"`
}

type errorBody struct {
	Error string `json:"error"`
}
