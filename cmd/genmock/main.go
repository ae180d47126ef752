// Command genmock writes the mock contest logs and DXCC table used by the
// test suites and local development, plus an enriched QSO fixture produced
// by the real domain package so downstream consumers see actual pipeline
// output.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/mockdata"
)

// fixtureTime is the fixed ProcessedAt stamped on generated events.
var fixtureTime = time.Date(2024, time.July, 7, 6, 0, 0, 0, time.UTC)

// logFile is one generated log and the name it is written under.
type logFile struct {
	name string
	body string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for logs and fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	table, err := mockdata.DXCCTable()
	if err != nil {
		return fmt.Errorf("build dxcc table: %w", err)
	}
	if err := os.WriteFile(filepath.Join(*out, "dxcc.json"), table, 0o600); err != nil {
		return fmt.Errorf("write dxcc table: %w", err)
	}
	log.Printf("wrote dxcc table: %d entities", len(mockdata.Entities))

	resolver := dxcc.BuildIndex(mockdata.Entities)
	station := domain.Station{Callsign: mockdata.MyCall, Locator: mockdata.MyLocator}

	logs := []logFile{
		{name: "field-day.edi", body: mockdata.EDI()},
		{name: "field-day.adi", body: mockdata.ADIF()},
		{name: "field-day.cbr", body: mockdata.Cabrillo()},
	}

	var events []domain.QsoEvent //nolint:prealloc // size depends on parse results
	for _, lf := range logs {
		path := filepath.Join(*out, lf.name)
		if err := os.WriteFile(path, []byte(lf.body), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", lf.name, err)
		}

		res, err := domain.ParseRawLog(domain.RawEvent{
			Value:   []byte(lf.body),
			Headers: map[string]string{domain.HeaderFilename: lf.name},
		})
		if err != nil {
			return fmt.Errorf("parse %s: %w", lf.name, err)
		}
		enriched := domain.EnrichResult(res, domain.ImportID([]byte(lf.body)), station, resolver)
		events = append(events, enriched...)
		log.Printf("%s: %s, %d qsos, %d skipped", lf.name, res.Format, len(enriched), res.Skipped)
	}

	fixture := filepath.Join(*out, "qsos.json")
	if err := writeJSON(fixture, events); err != nil {
		return fmt.Errorf("writing qso fixture: %w", err)
	}
	log.Printf("wrote qso fixture: %s", fixture)

	printStats(events)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(events []domain.QsoEvent) {
	formats := map[string]int{}
	entities := map[string]int{}
	var longest float64
	var longestCall string

	for i := range events {
		formats[events[i].SourceFormat]++
		if events[i].Entity != nil {
			entities[events[i].Entity.Name]++
		}
		if d := events[i].DistanceKm; d != nil && *d > longest {
			longest, longestCall = *d, events[i].Call
		}
	}

	fmt.Println()
	fmt.Println("=== QSO Fixture Stats ===")
	fmt.Printf("Total: %d\n", len(events))
	for _, f := range sortedKeys(formats) {
		fmt.Printf("  %-10s %d\n", f, formats[f])
	}
	fmt.Println("DXCC entities:")
	for _, name := range sortedKeys(entities) {
		fmt.Printf("  %-24s %d\n", name, entities[name])
	}
	if longestCall != "" {
		fmt.Printf("Longest QSO: %s, %.1f km\n", longestCall, longest)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
