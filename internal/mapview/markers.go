package mapview

import "fmt"

// Marker is one pin on the map. Key identifies it within its set.
type Marker struct {
	Key      string `json:"key"`
	Color    string `json:"color"`
	Position LngLat `json:"position"`
	Popup    string `json:"popup,omitempty"`
}

// MarkerSet is the collection of markers a flow currently owns. Replacement
// is all-or-nothing: a set never holds a mix of two generations.
type MarkerSet struct {
	order []string
	byKey map[string]Marker
}

// ReplaceAll swaps the whole set for markers. On a duplicate key the set is
// left untouched and an error is returned.
func (s *MarkerSet) ReplaceAll(markers []Marker) error {
	next := make(map[string]Marker, len(markers))
	order := make([]string, 0, len(markers))
	for _, m := range markers {
		if _, dup := next[m.Key]; dup {
			return fmt.Errorf("duplicate marker key %q", m.Key)
		}
		next[m.Key] = m
		order = append(order, m.Key)
	}
	s.byKey = next
	s.order = order
	return nil
}

// Clear removes every marker.
func (s *MarkerSet) Clear() {
	s.byKey = nil
	s.order = nil
}

// All returns the markers in insertion order.
func (s *MarkerSet) All() []Marker {
	out := make([]Marker, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}
