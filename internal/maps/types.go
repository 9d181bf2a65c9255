package maps

// LookupRequest represents the query parameters of the raw lookup endpoint.
type LookupRequest struct {
	Query string `form:"q" binding:"required,min=3"`
}

// Resolution is the single best match for an address.
type Resolution struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Place string  `json:"place"`
}

// ValidCoordinates reports whether the point lies on the globe.
func (r Resolution) ValidCoordinates() bool {
	return r.Lat >= -90 && r.Lat <= 90 && r.Lon >= -180 && r.Lon <= 180
}

// mapboxResponse mirrors the relevant parts of the Mapbox places payload.
type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	// Center is [lon, lat].
	Center    []float64 `json:"center"`
	PlaceName string    `json:"place_name"`
}

// nominatimResponse mirrors the relevant parts of the OSM search payload.
type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
