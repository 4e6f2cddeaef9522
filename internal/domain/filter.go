package domain

import "strings"

// FilterSelection is the set of allowed values per categorical dimension plus
// an optional metric used to color markers. An empty dimension is unconstrained.
type FilterSelection struct {
	VenueTypes   []string `json:"venue_types,omitempty"`
	ChargerTypes []string `json:"charger_types,omitempty"`
	Accounts     []string `json:"accounts,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	Ports        []string `json:"ports,omitempty"`

	// Metric is empty when markers should not be rated.
	Metric Metric `json:"metric,omitempty"`
}

// HasCategorySelection reports whether any of venue, charger, account or
// location has at least one value selected. Ports alone do not count.
func (s FilterSelection) HasCategorySelection() bool {
	return len(s.VenueTypes) > 0 || len(s.ChargerTypes) > 0 || len(s.Accounts) > 0 || len(s.Locations) > 0
}

// Normalize canonicalizes the metric name in place. A blank metric means no
// coloring; any other name must be a supported metric.
func (s *FilterSelection) Normalize() error {
	if strings.TrimSpace(string(s.Metric)) == "" {
		s.Metric = ""
		return nil
	}
	m, err := ParseMetric(string(s.Metric))
	if err != nil {
		return err
	}
	s.Metric = m
	return nil
}

// dimension pairs a selection set with the record field it constrains.
type dimension struct {
	allowed map[string]struct{}
	value   func(Record) string
}

func newDimension(values []string, value func(Record) string) (dimension, bool) {
	if len(values) == 0 {
		return dimension{}, false
	}
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return dimension{allowed: allowed, value: value}, true
}

func (d dimension) match(r Record) bool {
	_, ok := d.allowed[d.value(r)]
	return ok
}

// Filter returns the records that match every constrained dimension of sel,
// in their original order. Within a dimension any selected value matches.
// records is not modified; the result is always a new slice.
func Filter(records []Record, sel FilterSelection) []Record {
	candidates := []struct {
		values []string
		value  func(Record) string
	}{
		{sel.VenueTypes, func(r Record) string { return string(r.VenueType) }},
		{sel.ChargerTypes, func(r Record) string { return string(r.ChargerType) }},
		{sel.Accounts, func(r Record) string { return r.Account }},
		{sel.Locations, func(r Record) string { return r.Location }},
		{sel.Ports, func(r Record) string { return r.Ports }},
	}

	var dims []dimension
	for _, c := range candidates {
		if d, ok := newDimension(c.values, c.value); ok {
			dims = append(dims, d)
		}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchAll(dims, r) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(dims []dimension, r Record) bool {
	for _, d := range dims {
		if !d.match(r) {
			return false
		}
	}
	return true
}
