// Command genmock writes a synthetic charger dataset in the export layout the
// service loads. Metric values are drawn inside the shipped baseline bands so
// every rating appears, and a share of rows use the spellings real exports
// contain ("Hub +", "DC 50", "12.5%") to exercise normalisation. The output is
// reloaded through the CSV loader before the command exits.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/chargers.csv -rows 200 -seed 7
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/ev-charger-map/internal/adapter/csvfile"
	"github.com/couchcryptid/ev-charger-map/internal/domain"
)

// site is a key account and the venue it typically operates.
type site struct {
	account string
	venue   domain.VenueType
	names   []string
}

var sites = []site{
	{"Greene King", domain.VenuePub, []string{"The Crown", "The Red Lion", "The Plough", "The White Hart"}},
	{"NT", domain.VenueHeritage, []string{"Stourhead", "Cliveden", "Wallington", "Attingham Park"}},
	{"Aberdeen", domain.VenueRetail, []string{"Riverside Retail Park", "Queensgate"}},
	{"Aviva", domain.VenueHotel, []string{"Sunrise Hotel", "Harbour View Hotel"}},
	{"Bespoke", domain.VenueHotel, []string{"The Grange", "Manor House"}},
	{"MAG", domain.VenueHubPlus, []string{"Airport Hub North", "Airport Hub South"}},
	{"Merlin", domain.VenueAttraction, []string{"Sea Life", "Alton Towers", "Legoland"}},
	{"St George's", domain.VenueLeisure, []string{"Riverside Leisure", "Parkside Gym"}},
	{"J27", domain.VenueLeisure, []string{"J27 Services"}},
}

var header = []string{
	"Unnamed: 0",
	domain.ColumnAccount,
	domain.ColumnLocation,
	domain.ColumnPostcode,
	domain.ColumnVenueType,
	domain.ColumnChargerType,
	domain.ColumnPorts,
	domain.ColumnLatitude,
	domain.ColumnLongitude,
	string(domain.MetricSessions),
	string(domain.MetricEnergyThroughput),
	string(domain.MetricEnergyUtilisation),
	string(domain.MetricNetRevenue),
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	rows := flag.Int("rows", 100, "number of data rows")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *out == "" || *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -rows > 0")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	table := domain.DefaultBaselines()

	data := make([][]string, 0, *rows+1)
	data = append(data, header)
	for i := range *rows {
		data = append(data, generateRow(rng, table, i))
	}

	if err := writeCSV(*out, data); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d rows: %s", *rows, *out)

	result, err := csvfile.LoadFile(context.Background(), *out)
	if err != nil {
		return fmt.Errorf("reloading dataset: %w", err)
	}
	if result.Rejected() > 0 {
		return fmt.Errorf("generated dataset has %d rejected rows: %s", result.Rejected(), strings.Join(result.Errors, "; "))
	}

	printStats(domain.NewDataset(result.Records))
	return nil
}

func generateRow(rng *rand.Rand, table *domain.BaselineTable, index int) []string {
	s := sites[rng.IntN(len(sites))]
	charger := domain.ChargerTypes[rng.IntN(len(domain.ChargerTypes))]
	ports := []string{"2", "4", "6", "8", "10"}[rng.IntN(5)]

	row := []string{
		strconv.Itoa(index),
		s.account,
		s.names[rng.IntN(len(s.names))],
		postcode(rng),
		exportVenue(rng, s.venue),
		exportCharger(rng, charger),
		ports,
		strconv.FormatFloat(50.2+rng.Float64()*5.6, 'f', 4, 64),
		strconv.FormatFloat(-4.5+rng.Float64()*6.0, 'f', 4, 64),
	}

	for _, m := range domain.Metrics {
		band, _ := table.Lookup(domain.BaselineKey{Metric: m, Venue: s.venue, Charger: charger})
		value := strconv.FormatFloat(valueInBand(rng, band), 'f', 2, 64)
		if m == domain.MetricEnergyUtilisation {
			value += "%"
		}
		row = append(row, value)
	}

	// Occasional unreadable cells, as seen in real exports.
	if rng.IntN(25) == 0 {
		row[9] = "n/a"
	}
	return row
}

// valueInBand picks a rating band uniformly and returns a value inside it.
func valueInBand(rng *rand.Rand, band domain.Band) float64 {
	i := rng.IntN(len(band))
	lo := band[i]
	hi := lo * 1.5
	if i < len(band)-1 {
		hi = band[i+1]
	}
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func exportVenue(rng *rand.Rand, v domain.VenueType) string {
	if v == domain.VenueHubPlus && rng.IntN(2) == 0 {
		return "Hub +"
	}
	if rng.IntN(10) == 0 {
		return string(v) + " "
	}
	return string(v)
}

func exportCharger(rng *rand.Rand, c domain.ChargerType) string {
	if c != domain.ChargerAC && rng.IntN(3) == 0 {
		return "DC " + strings.TrimPrefix(string(c), "DC")
	}
	return string(c)
}

func postcode(rng *rand.Rand) string {
	const letters = "ABCDEFGHJKLMNPRSTUWYZ"
	l := func() byte { return letters[rng.IntN(len(letters))] }
	return fmt.Sprintf("%c%c%d %d%c%c", l(), l(), 1+rng.IntN(20), rng.IntN(10), l(), l())
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func printStats(ds *domain.Dataset) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Records: %d\n", len(ds.Records))
	fmt.Printf("Venue types: %s\n", strings.Join(ds.Options.VenueTypes, ", "))
	fmt.Printf("Charger types: %s\n", strings.Join(ds.Options.ChargerTypes, ", "))
	fmt.Printf("Accounts: %d, locations: %d\n", len(ds.Options.Accounts), len(ds.Options.Locations))
	fmt.Printf("Ports: %s\n", strings.Join(ds.Options.Ports, ", "))
	fmt.Printf("Map centre: %.4f, %.4f (zoom %d)\n", ds.View.Center.Lat, ds.View.Center.Lon, ds.View.Zoom)
}
