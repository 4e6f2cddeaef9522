// Command validate checks a charger dataset export against the shipped
// baseline table before it is deployed. It reports rejected rows, venue and
// charger values the baselines do not cover, unreadable metric cells, and the
// rating distribution each metric would produce.
//
// Usage:
//
//	go run ./cmd/validate -data data/Key_Accounts_Map_Data.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/ev-charger-map/internal/adapter/csvfile"
	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/couchcryptid/ev-charger-map/internal/observability"
	"github.com/couchcryptid/ev-charger-map/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the charger CSV export")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*dataPath))
}

func run(dataPath string) int {
	fmt.Println("=== Charger Dataset Validation ===")
	fmt.Println()

	result, err := csvfile.LoadFile(context.Background(), dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}
	table := domain.DefaultBaselines()

	phases := []*phase{
		validateBaselines(table),
		validateRows(result),
		validateCoverage(result.Records, table),
		validateMetricValues(result.Records),
		validateRender(result.Records, table),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d rows, %d loaded, %d rejected\n", result.Total, len(result.Records), result.Rejected())
	printRatingDistribution(result.Records, table)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Baselines ──
// Rebuilds the shipped table through the validating constructor.

func validateBaselines(table *domain.BaselineTable) *phase {
	p := &phase{name: "Phase 1: Baseline Table"}

	want := len(domain.Metrics) * len(domain.VenueTypes) * len(domain.ChargerTypes)
	if table.Len() != want {
		p.errorf("baseline table has %d entries, expected %d", table.Len(), want)
	}

	bands := make(map[domain.BaselineKey]domain.Band, want)
	for _, m := range domain.Metrics {
		for _, v := range domain.VenueTypes {
			for _, c := range domain.ChargerTypes {
				key := domain.BaselineKey{Metric: m, Venue: v, Charger: c}
				if b, ok := table.Lookup(key); ok {
					bands[key] = b
				}
			}
		}
	}
	if _, err := domain.NewBaselineTable(bands); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			p.errorf("%s", line)
		}
	}
	return p
}

// ── Phase 2: Rows ──

func validateRows(result *csvfile.LoadResult) *phase {
	p := &phase{name: "Phase 2: Row Parsing"}
	for _, e := range result.Errors {
		p.errorf("%s", e)
	}
	if len(result.Records) == 0 {
		p.errorf("no usable records")
	}
	return p
}

// ── Phase 3: Baseline Coverage ──
// Records outside the venue/charger domains always rate Critical.

func validateCoverage(records []domain.Record, table *domain.BaselineTable) *phase {
	p := &phase{name: "Phase 3: Baseline Coverage"}

	seen := map[domain.BaselineKey]bool{}
	for _, r := range records {
		key := domain.BaselineKey{Metric: domain.MetricSessions, Venue: r.VenueType, Charger: r.ChargerType}
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := table.Lookup(key); !ok {
			p.errorf("%s at %s: no baseline for venue %q / charger %q", r.Account, r.Location, r.VenueType, r.ChargerType)
		}
	}
	return p
}

// ── Phase 4: Metric Values ──

func validateMetricValues(records []domain.Record) *phase {
	p := &phase{name: "Phase 4: Metric Values"}
	for _, r := range records {
		for _, m := range domain.Metrics {
			if _, ok := r.Metrics[m]; !ok {
				continue
			}
			if _, err := r.MetricValue(m); err != nil {
				p.errorf("%s at %s: %v", r.Account, r.Location, err)
			}
		}
	}
	return p
}

// ── Phase 5: Render ──
// Every record must survive an ungated render of the full dataset.

func validateRender(records []domain.Record, table *domain.BaselineTable) *phase {
	p := &phase{name: "Phase 5: Render"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer := pipeline.New(table, nil, logger, observability.NewMetricsForTesting(), false)

	for _, m := range domain.Metrics {
		markers := renderer.Render(context.Background(), records, domain.FilterSelection{Metric: m})
		if len(markers) != len(records) {
			p.errorf("%s: rendered %d markers for %d records", m, len(markers), len(records))
		}
	}
	return p
}

func printRatingDistribution(records []domain.Record, table *domain.BaselineTable) {
	fmt.Println("\nRating distribution:")
	for _, m := range domain.Metrics {
		counts := map[domain.Rating]int{}
		unreadable := 0
		for _, r := range records {
			v, err := r.MetricValue(m)
			if err != nil {
				unreadable++
				continue
			}
			counts[table.Classify(m, r.VenueType, r.ChargerType, v)]++
		}
		fmt.Printf("  %-34s", m)
		for _, rating := range domain.Ratings {
			fmt.Printf(" %s=%d", strings.ToLower(rating.String()), counts[rating])
		}
		fmt.Printf(" unreadable=%d\n", unreadable)
	}
}
