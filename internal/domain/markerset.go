package domain

import "time"

// MarkerSet is one render result: the markers for a selection plus the
// metadata the map front end and downstream renderers need. Gated is true
// when rendering was suppressed because no category was selected.
type MarkerSet struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Selection   FilterSelection `json:"selection"`
	View        MapView         `json:"view"`
	Gated       bool            `json:"gated"`
	Markers     []MarkerSpec    `json:"markers"`
}

// NewMarkerSet stamps a render result with the current time.
func NewMarkerSet(id string, sel FilterSelection, view MapView, gated bool, markers []MarkerSpec) MarkerSet {
	if markers == nil {
		markers = []MarkerSpec{}
	}
	return MarkerSet{
		ID:          id,
		GeneratedAt: clock.Now().UTC(),
		Selection:   sel,
		View:        view,
		Gated:       gated,
		Markers:     markers,
	}
}
