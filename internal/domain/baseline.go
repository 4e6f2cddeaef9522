package domain

import (
	"errors"
	"fmt"
)

// Band is the ordered threshold boundary array [b0, b1, b2, b3] of a baseline.
// b0 is always 0 and thresholds never decrease.
type Band [4]float64

// BaselineKey identifies one baseline entry.
type BaselineKey struct {
	Metric  Metric
	Venue   VenueType
	Charger ChargerType
}

func (k BaselineKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Metric, k.Venue, k.Charger)
}

// BaselineTable maps (metric, venue type, charger type) to a threshold band.
// It is immutable after construction and safe for concurrent use.
type BaselineTable struct {
	bands map[BaselineKey]Band
}

// NewBaselineTable validates entries and returns a table over a private copy.
// Every metric/venue/charger combination of the fixed domain must be present,
// every band must start at 0 and be non-decreasing.
func NewBaselineTable(entries map[BaselineKey]Band) (*BaselineTable, error) {
	var errs []error
	for _, m := range Metrics {
		for _, v := range VenueTypes {
			for _, c := range ChargerTypes {
				key := BaselineKey{Metric: m, Venue: v, Charger: c}
				if _, ok := entries[key]; !ok {
					errs = append(errs, fmt.Errorf("missing baseline %s", key))
				}
			}
		}
	}

	bands := make(map[BaselineKey]Band, len(entries))
	for key, band := range entries {
		if err := validateBand(band); err != nil {
			errs = append(errs, fmt.Errorf("baseline %s: %w", key, err))
		}
		bands[key] = band
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid baseline table: %w", errors.Join(errs...))
	}
	return &BaselineTable{bands: bands}, nil
}

func validateBand(b Band) error {
	if b[0] != 0 {
		return fmt.Errorf("first threshold must be 0, got %g", b[0])
	}
	for i := 1; i < len(b); i++ {
		if b[i] < b[i-1] {
			return fmt.Errorf("thresholds decrease at index %d (%g < %g)", i, b[i], b[i-1])
		}
	}
	return nil
}

// Lookup returns the band for key. A miss is an expected outcome for venue or
// charger types outside the fixed domain.
func (t *BaselineTable) Lookup(key BaselineKey) (Band, bool) {
	b, ok := t.bands[key]
	return b, ok
}

// Len returns the number of entries.
func (t *BaselineTable) Len() int { return len(t.bands) }

var defaultBaselines = mustBaselines(defaultBaselineData)

// DefaultBaselines returns the shipped performance baselines.
func DefaultBaselines() *BaselineTable { return defaultBaselines }

func mustBaselines(data map[Metric]map[VenueType]map[ChargerType]Band) *BaselineTable {
	entries := make(map[BaselineKey]Band)
	for m, venues := range data {
		for v, chargers := range venues {
			for c, band := range chargers {
				entries[BaselineKey{Metric: m, Venue: v, Charger: c}] = band
			}
		}
	}
	t, err := NewBaselineTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// defaultBaselineData holds the per-port daily performance bands. AC bands
// depend on the venue; DC bands are shared across venues.
var defaultBaselineData = map[Metric]map[VenueType]map[ChargerType]Band{
	MetricSessions: {
		VenuePub: {
			ChargerAC:    {0, 0.15, 0.3, 0.45},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
		VenueHotel: {
			ChargerAC:    {0, 0.35, 0.7, 1.05},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
		VenueLeisure: {
			ChargerAC:    {0, 0.25, 0.5, 0.75},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
		VenueAttraction: {
			ChargerAC:    {0, 0.45, 0.9, 1.35},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
		VenueHeritage: {
			ChargerAC:    {0, 0.25, 0.5, 0.75},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
		VenueRetail: {
			ChargerAC:    {0, 0.95, 1.9, 2.85},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
		VenueHubPlus: {
			ChargerAC:    {0, 0.8, 1.6, 2.4},
			ChargerDC50:  {0, 0.75, 1.5, 2.25},
			ChargerDC150: {0, 1.75, 3.5, 5.25},
			ChargerDC300: {0, 2, 4, 6},
		},
	},
	MetricEnergyThroughput: {
		VenuePub: {
			ChargerAC:    {0, 2.5, 5, 7.5},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
		VenueHotel: {
			ChargerAC:    {0, 7.5, 15, 22.5},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
		VenueLeisure: {
			ChargerAC:    {0, 4, 8, 12},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
		VenueAttraction: {
			ChargerAC:    {0, 7.5, 15, 22.5},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
		VenueHeritage: {
			ChargerAC:    {0, 4, 8, 12},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
		VenueRetail: {
			ChargerAC:    {0, 11.5, 23, 34.5},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
		VenueHubPlus: {
			ChargerAC:    {0, 13, 26, 39},
			ChargerDC50:  {0, 19.2, 38.4, 57.6},
			ChargerDC150: {0, 56.7, 113.4, 170.1},
			ChargerDC300: {0, 112.5, 225, 337.5},
		},
	},
	MetricEnergyUtilisation: {
		VenuePub: {
			ChargerAC:    {0, 1.05, 2.1, 3.15},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
		VenueHotel: {
			ChargerAC:    {0, 2.8, 5.6, 8.4},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
		VenueLeisure: {
			ChargerAC:    {0, 1.5, 3.0, 4.5},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
		VenueAttraction: {
			ChargerAC:    {0, 2.9, 5.8, 8.7},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
		VenueHeritage: {
			ChargerAC:    {0, 1.5, 3.0, 4.5},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
		VenueRetail: {
			ChargerAC:    {0, 4.4, 8.8, 13.2},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
		VenueHubPlus: {
			ChargerAC:    {0, 5.0, 10.0, 15.0},
			ChargerDC50:  {0, 3.15, 6.3, 9.45},
			ChargerDC150: {0, 3.15, 6.3, 9.45},
			ChargerDC300: {0, 1.85, 3.7, 5.55},
		},
	},
	MetricNetRevenue: {
		VenuePub: {
			ChargerAC:    {0, 1.15, 2.29, 3.44},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
		VenueHotel: {
			ChargerAC:    {0, 3.13, 6.26, 9.38},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
		VenueLeisure: {
			ChargerAC:    {0, 1.83, 3.66, 5.5},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
		VenueAttraction: {
			ChargerAC:    {0, 3.44, 6.87, 10.31},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
		VenueHeritage: {
			ChargerAC:    {0, 1.83, 3.66, 5.5},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
		VenueRetail: {
			ChargerAC:    {0, 5.27, 10.53, 15.8},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
		VenueHubPlus: {
			ChargerAC:    {0, 5.95, 11.91, 17.86},
			ChargerDC50:  {0, 10.41, 20.81, 31.22},
			ChargerDC150: {0, 30.73, 61.46, 92.19},
			ChargerDC300: {0, 60.94, 121.88, 182.81},
		},
	},
}
