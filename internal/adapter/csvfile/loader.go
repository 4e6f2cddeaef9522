// Package csvfile loads the charger dataset from a CSV export and normalizes
// it into domain records.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
)

var requiredColumns = []string{
	domain.ColumnAccount,
	domain.ColumnLocation,
	domain.ColumnVenueType,
	domain.ColumnChargerType,
	domain.ColumnPorts,
	domain.ColumnLatitude,
	domain.ColumnLongitude,
}

// LoadResult holds the accepted records and a line-numbered error for every
// rejected row.
type LoadResult struct {
	Records []domain.Record
	Total   int
	Errors  []string
}

// Rejected returns the number of rows that did not produce a record.
func (r *LoadResult) Rejected() int { return len(r.Errors) }

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Load(ctx, f)
}

// Load reads a CSV export with a header row. Malformed rows are recorded in
// the result and skipped; only an unreadable header or missing required
// column fails the load.
func Load(ctx context.Context, r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := newColumns(header)
	if err := cols.validate(); err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Total++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", errorLine(err), err))
			continue
		}
		if isBlank(row) {
			continue
		}
		result.Total++

		// Quoted fields may span lines, so the row's own start line is used.
		line, _ := reader.FieldPos(0)
		rec, err := cols.parseRecord(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// columns maps the kept header names to their row index, in header order.
type columns struct {
	names []string
	byKey map[string]int
}

// newColumns trims header names and drops blank and "Unnamed: N" index columns.
func newColumns(header []string) columns {
	c := columns{byKey: make(map[string]int)}
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		if _, dup := c.byKey[name]; dup {
			continue
		}
		c.names = append(c.names, name)
		c.byKey[name] = i
	}
	return c
}

func (c columns) validate() error {
	var missing []string
	for _, req := range requiredColumns {
		if _, ok := c.byKey[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required csv columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c columns) parseRecord(row []string) (domain.Record, error) {
	get := func(col string) string {
		if idx, ok := c.byKey[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	lat, err := parseCoordinate(get(domain.ColumnLatitude), 90)
	if err != nil {
		return domain.Record{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseCoordinate(get(domain.ColumnLongitude), 180)
	if err != nil {
		return domain.Record{}, fmt.Errorf("longitude: %w", err)
	}

	rec := domain.Record{
		Account:     get(domain.ColumnAccount),
		Location:    get(domain.ColumnLocation),
		Postcode:    get(domain.ColumnPostcode),
		VenueType:   domain.NormalizeVenueType(get(domain.ColumnVenueType)),
		ChargerType: domain.NormalizeChargerType(get(domain.ColumnChargerType)),
		Ports:       normalizePorts(get(domain.ColumnPorts)),
		Geo:         domain.Geo{Lat: lat, Lon: lon},
		Metrics:     make(map[domain.Metric]string, len(domain.Metrics)),
		Fields:      make([]domain.Field, 0, len(c.names)),
	}

	for _, m := range domain.Metrics {
		if _, ok := c.byKey[string(m)]; !ok {
			continue
		}
		v := get(string(m))
		if m == domain.MetricEnergyUtilisation {
			v = domain.NormalizeUtilisation(v)
		}
		rec.Metrics[m] = v
	}

	for _, name := range c.names {
		rec.Fields = append(rec.Fields, domain.Field{Name: name, Value: displayValue(rec, name, get(name))})
	}

	return rec, nil
}

// displayValue returns the normalized text of a column for popups.
func displayValue(rec domain.Record, name, raw string) string {
	switch name {
	case domain.ColumnVenueType:
		return string(rec.VenueType)
	case domain.ColumnChargerType:
		return string(rec.ChargerType)
	case domain.ColumnPorts:
		return rec.Ports
	case string(domain.MetricEnergyUtilisation):
		return rec.Metrics[domain.MetricEnergyUtilisation]
	default:
		return raw
	}
}

func parseCoordinate(s string, limit float64) (float64, error) {
	if s == "" {
		return 0, errors.New("missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, fmt.Errorf("out of range value %q", s)
	}
	return v, nil
}

// normalizePorts renders whole-number port counts without a fraction, so
// "4.0" from a spreadsheet export matches a selection of "4".
func normalizePorts(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// errorLine returns the line a csv read error starts on.
func errorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
