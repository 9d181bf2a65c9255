// Package mapview models an interactive map widget: a viewport, a keyed set
// of markers and the fit-to-bounds camera math the widget performs.
package mapview

import "math"

// LngLat is a point in longitude/latitude order, as map widgets expect it.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Valid reports whether both components are finite and on the globe.
func (p LngLat) Valid() bool {
	if math.IsNaN(p.Lng) || math.IsNaN(p.Lat) || math.IsInf(p.Lng, 0) || math.IsInf(p.Lat, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Bounds is an axis-aligned lon/lat box. The zero value is empty.
type Bounds struct {
	sw, ne LngLat
	set    bool
}

// BoundsOf returns the smallest box enclosing points.
func BoundsOf(points ...LngLat) Bounds {
	var b Bounds
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns b grown to include p.
func (b Bounds) Extend(p LngLat) Bounds {
	if !b.set {
		return Bounds{sw: p, ne: p, set: true}
	}
	b.sw.Lng = math.Min(b.sw.Lng, p.Lng)
	b.sw.Lat = math.Min(b.sw.Lat, p.Lat)
	b.ne.Lng = math.Max(b.ne.Lng, p.Lng)
	b.ne.Lat = math.Max(b.ne.Lat, p.Lat)
	return b
}

func (b Bounds) IsEmpty() bool { return !b.set }

func (b Bounds) SouthWest() LngLat { return b.sw }

func (b Bounds) NorthEast() LngLat { return b.ne }

// Center is the midpoint in projected space, so it matches what a
// Mercator widget shows as the middle of the box.
func (b Bounds) Center() LngLat {
	return LngLat{
		Lng: (b.sw.Lng + b.ne.Lng) / 2,
		Lat: unprojectY((projectY(b.sw.Lat) + projectY(b.ne.Lat)) / 2),
	}
}

const (
	tileSize = 512.0
	// maxLat is the Web-Mercator latitude cutoff.
	maxLat = 85.051129
)

// projectX maps longitude to [0, 1].
func projectX(lng float64) float64 {
	return (lng + 180) / 360
}

// projectY maps latitude to [0, 1], north at 0.
func projectY(lat float64) float64 {
	lat = math.Max(-maxLat, math.Min(maxLat, lat))
	rad := lat * math.Pi / 180
	return (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2
}

func unprojectY(y float64) float64 {
	n := math.Pi * (1 - 2*y)
	return math.Atan(math.Sinh(n)) * 180 / math.Pi
}
