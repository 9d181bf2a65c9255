package mapview

import (
	"errors"
	"math"
)

// Size is the viewport in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FitOptions controls FitBounds.
type FitOptions struct {
	Padding float64
	MaxZoom float64
}

// Camera is the current view.
type Camera struct {
	Center LngLat  `json:"center"`
	Zoom   float64 `json:"zoom"`
}

// Snapshot is the serialisable state of a map.
type Snapshot struct {
	Name    string   `json:"name"`
	Camera  Camera   `json:"camera"`
	Size    Size     `json:"size"`
	Markers []Marker `json:"markers"`
	// Resizes counts how often the host asked the widget to recompute its
	// size, e.g. after becoming visible.
	Resizes int `json:"resizes"`
}

// ErrInvalidPosition is returned when a camera or marker position is not on
// the globe.
var ErrInvalidPosition = errors.New("position is not a valid coordinate")

// Map is one map widget. It is not safe for concurrent use; callers
// serialise access.
type Map struct {
	name    string
	camera  Camera
	size    Size
	markers MarkerSet
	resizes int
}

// New creates a map centred on center at zoom.
func New(name string, center LngLat, zoom float64, size Size) *Map {
	return &Map{name: name, camera: Camera{Center: center, Zoom: zoom}, size: size}
}

func (m *Map) Name() string { return m.name }

func (m *Map) Camera() Camera { return m.camera }

// SetView moves the camera.
func (m *Map) SetView(center LngLat, zoom float64) error {
	if !center.Valid() {
		return ErrInvalidPosition
	}
	m.camera = Camera{Center: center, Zoom: zoom}
	return nil
}

// ReplaceMarkers swaps the marker set atomically.
func (m *Map) ReplaceMarkers(markers []Marker) error {
	for _, mk := range markers {
		if !mk.Position.Valid() {
			return ErrInvalidPosition
		}
	}
	return m.markers.ReplaceAll(markers)
}

// ClearMarkers removes every marker.
func (m *Map) ClearMarkers() { m.markers.Clear() }

func (m *Map) Markers() []Marker { return m.markers.All() }

// Resize records that the hosting element changed size.
func (m *Map) Resize(size Size) {
	if size.Width > 0 && size.Height > 0 {
		m.size = size
	}
	m.resizes++
}

// FitBounds moves the camera so b fills the viewport minus padding on every
// side, never zooming in past opts.MaxZoom. An empty b is a no-op.
func (m *Map) FitBounds(b Bounds, opts FitOptions) {
	if b.IsEmpty() {
		return
	}
	m.camera = Camera{Center: b.Center(), Zoom: FitZoom(b, m.size, opts)}
}

// FitZoom computes the zoom FitBounds would choose.
func FitZoom(b Bounds, size Size, opts FitOptions) float64 {
	width := float64(size.Width) - 2*opts.Padding
	height := float64(size.Height) - 2*opts.Padding
	if width <= 0 || height <= 0 {
		return opts.MaxZoom
	}

	sw, ne := b.SouthWest(), b.NorthEast()
	dx := math.Abs(projectX(ne.Lng) - projectX(sw.Lng))
	dy := math.Abs(projectY(sw.Lat) - projectY(ne.Lat))
	if dx == 0 && dy == 0 {
		return opts.MaxZoom
	}

	zoom := math.Inf(1)
	if dx > 0 {
		zoom = math.Log2(width / (tileSize * dx))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(height/(tileSize*dy)))
	}
	if zoom > opts.MaxZoom {
		zoom = opts.MaxZoom
	}
	if zoom < 0 {
		zoom = 0
	}
	return zoom
}

// Snapshot captures the map state.
func (m *Map) Snapshot() Snapshot {
	return Snapshot{
		Name:    m.name,
		Camera:  m.Camera(),
		Size:    m.size,
		Markers: m.Markers(),
		Resizes: m.resizes,
	}
}
