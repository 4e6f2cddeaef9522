package domain

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// DefaultZoom is the initial zoom level of the map view.
const DefaultZoom = 6

// MapView is the initial map position for a dataset.
type MapView struct {
	Center Geo `json:"center"`
	Zoom   int `json:"zoom"`
}

// FilterOptions holds the distinct values of each categorical dimension,
// sorted, for populating selection widgets.
type FilterOptions struct {
	VenueTypes   []string `json:"venue_types"`
	ChargerTypes []string `json:"charger_types"`
	Accounts     []string `json:"accounts"`
	Locations    []string `json:"locations"`
	Ports        []string `json:"ports"`
	Metrics      []Metric `json:"metrics"`
}

// Dataset is the loaded, read-only set of records with values derived once
// at load time.
type Dataset struct {
	Records []Record
	Options FilterOptions
	View    MapView
}

// NewDataset derives filter options and the map view from records.
func NewDataset(records []Record) *Dataset {
	return &Dataset{
		Records: records,
		Options: distinctOptions(records),
		View:    centerView(records),
	}
}

func distinctOptions(records []Record) FilterOptions {
	return FilterOptions{
		VenueTypes:   distinct(records, func(r Record) string { return string(r.VenueType) }, compareText),
		ChargerTypes: distinct(records, func(r Record) string { return string(r.ChargerType) }, compareText),
		Accounts:     distinct(records, func(r Record) string { return r.Account }, compareText),
		Locations:    distinct(records, func(r Record) string { return r.Location }, compareText),
		Ports:        distinct(records, func(r Record) string { return r.Ports }, comparePorts),
		Metrics:      slices.Clone(Metrics),
	}
}

func distinct(records []Record, value func(Record) string, compare func(a, b string) int) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := value(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, compare)
	return out
}

func compareText(a, b string) int { return cmp.Compare(a, b) }

// comparePorts orders numeric port counts numerically, ahead of any
// non-numeric values, which sort as text.
func comparePorts(a, b string) int {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

// centerView centers the map on the mean position of all records.
func centerView(records []Record) MapView {
	if len(records) == 0 {
		return MapView{Zoom: DefaultZoom}
	}
	lats := make([]float64, len(records))
	lons := make([]float64, len(records))
	for i, r := range records {
		lats[i] = r.Geo.Lat
		lons[i] = r.Geo.Lon
	}
	return MapView{
		Center: Geo{Lat: stat.Mean(lats, nil), Lon: stat.Mean(lons, nil)},
		Zoom:   DefaultZoom,
	}
}

// ValidGeo reports whether g is a finite WGS-84 position.
func ValidGeo(g Geo) bool {
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lon) || math.IsInf(g.Lat, 0) || math.IsInf(g.Lon, 0) {
		return false
	}
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}
