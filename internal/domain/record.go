package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Metric identifies one of the comparable performance measures. Values are
// the dataset column names so a selection can be matched against the CSV header.
type Metric string

const (
	MetricSessions          Metric = "Sessions/port/day"
	MetricEnergyThroughput  Metric = "Energy Throughput/port/day (kWh)"
	MetricEnergyUtilisation Metric = "Energy Utilisation (%)"
	MetricNetRevenue        Metric = "Net Rev Exc. VAT/port/day"
)

// Metrics lists every supported metric in display order.
var Metrics = []Metric{MetricSessions, MetricEnergyThroughput, MetricEnergyUtilisation, MetricNetRevenue}

// ParseMetric returns the metric named s. An empty string is not a metric.
func ParseMetric(s string) (Metric, error) {
	s = strings.TrimSpace(s)
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// VenueType is the site classification of a charger installation.
type VenueType string

const (
	VenuePub        VenueType = "Pub"
	VenueHotel      VenueType = "Hotel"
	VenueLeisure    VenueType = "Leisure"
	VenueAttraction VenueType = "Attraction"
	VenueHeritage   VenueType = "Heritage"
	VenueRetail     VenueType = "Retail"
	VenueHubPlus    VenueType = "Hub+"
)

// VenueTypes is the fixed venue domain covered by the baseline table.
var VenueTypes = []VenueType{VenuePub, VenueHotel, VenueLeisure, VenueAttraction, VenueHeritage, VenueRetail, VenueHubPlus}

// venueAliases maps spellings seen in exports to their canonical venue type.
var venueAliases = map[string]VenueType{
	"Hub +": VenueHubPlus,
}

// NormalizeVenueType trims whitespace and canonicalizes known aliases.
func NormalizeVenueType(s string) VenueType {
	s = strings.TrimSpace(s)
	if v, ok := venueAliases[s]; ok {
		return v
	}
	return VenueType(s)
}

// ChargerType is the charger hardware class.
type ChargerType string

const (
	ChargerAC    ChargerType = "AC"
	ChargerDC50  ChargerType = "DC50"
	ChargerDC150 ChargerType = "DC150"
	ChargerDC300 ChargerType = "DC300"
)

// ChargerTypes is the fixed charger domain covered by the baseline table.
var ChargerTypes = []ChargerType{ChargerAC, ChargerDC50, ChargerDC150, ChargerDC300}

// NormalizeChargerType removes every space, so "DC 50" becomes "DC50".
func NormalizeChargerType(s string) ChargerType {
	return ChargerType(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// NormalizeUtilisation strips the percent sign from a utilisation cell: "12.3%" -> "12.3".
func NormalizeUtilisation(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Field is one loaded column of a record, kept in dataset column order for display.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Column names with special handling.
const (
	ColumnAccount     = "Account"
	ColumnLocation    = "Location"
	ColumnPostcode    = "Postcode"
	ColumnVenueType   = "Venue Type"
	ColumnChargerType = "Charger Type"
	ColumnPorts       = "Number of Ports"
	ColumnLatitude    = "Latitude"
	ColumnLongitude   = "Longitude"
)

// Record is one charger site. Records are built once by the loader and are
// read-only afterwards; the Metrics map and Fields slice must not be modified.
type Record struct {
	Account     string
	Location    string
	Postcode    string
	VenueType   VenueType
	ChargerType ChargerType
	Ports       string
	Geo         Geo

	// Metrics holds the normalized cell text for each metric column present.
	Metrics map[Metric]string

	// Fields holds every loaded column, normalized, in column order.
	Fields []Field
}

// MetricValue parses the record's value for m. Missing or non-numeric cells
// return an error.
func (r Record) MetricValue(m Metric) (float64, error) {
	raw, ok := r.Metrics[m]
	if !ok {
		return 0, fmt.Errorf("metric %q not present", m)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("metric %q: %w", m, err)
	}
	return v, nil
}
