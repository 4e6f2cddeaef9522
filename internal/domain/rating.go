package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rating is the qualitative band of a metric value, ordered best to worst.
type Rating int

const (
	RatingExcellent Rating = iota
	RatingGood
	RatingBad
	RatingCritical
)

// Ratings lists every rating from best to worst.
var Ratings = []Rating{RatingExcellent, RatingGood, RatingBad, RatingCritical}

func (r Rating) String() string {
	switch r {
	case RatingExcellent:
		return "Excellent"
	case RatingGood:
		return "Good"
	case RatingBad:
		return "Bad"
	case RatingCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Rating(%d)", int(r))
	}
}

// Color returns the marker color for the rating.
func (r Rating) Color() Color {
	switch r {
	case RatingExcellent:
		return ColorGreen
	case RatingGood:
		return ColorOrange
	case RatingBad:
		return ColorRed
	default:
		return ColorDarkRed
	}
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(r.String()))
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, candidate := range Ratings {
		if strings.EqualFold(candidate.String(), s) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown rating %q", s)
}

// Classify rates value against the band for (metric, venue, charger):
//   - value >= b3: excellent
//   - value >= b2: good
//   - value >= b1: bad
//   - otherwise:   critical
//
// Boundary values belong to the higher band. A combination without a baseline
// rates as critical, so an unrecognized venue or charger type is never shown
// as performing well. NaN compares false against every threshold and is
// therefore critical too.
func (t *BaselineTable) Classify(metric Metric, venue VenueType, charger ChargerType, value float64) Rating {
	b, ok := t.Lookup(BaselineKey{Metric: metric, Venue: venue, Charger: charger})
	if !ok {
		return RatingCritical
	}

	switch {
	case value >= b[3]:
		return RatingExcellent
	case value >= b[2]:
		return RatingGood
	case value >= b[1]:
		return RatingBad
	default:
		return RatingCritical
	}
}
