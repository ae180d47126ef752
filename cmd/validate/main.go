// Command validate checks contest logs end to end: every file must be
// detected and parsed, contacts must resolve to DXCC entities, and, when an
// enriched fixture is given, re-running enrichment must reproduce it.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -dxcc data/mock/dxcc.json \
//	  -fixture data/mock/qsos.json \
//	  data/mock/field-day.edi data/mock/field-day.adi data/mock/field-day.cbr
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/logimport"
)

// minDXCCCoverage is the share of contacts that must resolve to an entity.
const minDXCCCoverage = 0.9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// parsedLog is one input file after parsing and enrichment.
type parsedLog struct {
	path   string
	result logimport.Result
	events []domain.QsoEvent
}

func main() {
	dxccPath := flag.String("dxcc", "", "path to the DXCC entity table (JSON)")
	fixturePath := flag.String("fixture", "", "optional enriched QSO fixture to compare against")
	myCall := flag.String("station-call", "", "home callsign used when a log has none")
	myLocator := flag.String("station-locator", "", "home locator used when a log has none")
	flag.Parse()

	if *dxccPath == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	station := domain.Station{Callsign: *myCall, Locator: *myLocator}
	if code := run(*dxccPath, *fixturePath, station, flag.Args()); code != 0 {
		os.Exit(code)
	}
}

func run(dxccPath, fixturePath string, station domain.Station, files []string) int {
	// Set a fixed clock matching genmock for fixture reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.July, 7, 6, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Println("=== QSO Log Validation ===")
	fmt.Println()

	entities, err := dxcc.LoadTableFile(dxccPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dxcc table: %v\n", err)
		return 1
	}
	resolver := dxcc.BuildIndex(entities)

	parsePhase, logs := validateParsing(files, station, resolver)
	phases := []*phase{
		parsePhase,
		validateDXCCCoverage(logs),
		validateGeometry(logs),
	}
	if fixturePath != "" {
		fixture, err := loadJSON[domain.QsoEvent](fixturePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
			return 1
		}
		phases = append(phases, validateFixture(logs, fixture))
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
	for _, l := range logs {
		fmt.Printf("%-28s %-9s %3d qsos %3d skipped\n",
			filepath.Base(l.path), l.result.Format, len(l.events), l.result.Skipped)
	}

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

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Parsing ──
// Every file must be detected and yield at least one contact.

func validateParsing(files []string, station domain.Station, resolver dxcc.Resolver) (*phase, []parsedLog) {
	p := &phase{name: "Phase 1: Parsing (format, contacts)"}
	var logs []parsedLog

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			p.errorf("%s: %v", path, err)
			continue
		}
		res, err := domain.ParseRawLog(domain.RawEvent{
			Value:   data,
			Headers: map[string]string{domain.HeaderFilename: filepath.Base(path)},
		})
		if err != nil {
			p.errorf("%s: %v", path, err)
			continue
		}
		if len(res.Qsos) == 0 {
			p.errorf("%s: no contacts parsed (%d lines skipped)", path, res.Skipped)
		}
		events := domain.EnrichResult(res, domain.ImportID(data), station, resolver)
		logs = append(logs, parsedLog{path: path, result: res, events: events})
	}
	return p, logs
}

// ── Phase 2: DXCC Coverage ──

func validateDXCCCoverage(logs []parsedLog) *phase {
	p := &phase{name: "Phase 2: DXCC Coverage"}

	for _, l := range logs {
		if len(l.events) == 0 {
			continue
		}
		resolved := 0
		for i := range l.events {
			if l.events[i].Entity != nil {
				resolved++
			}
		}
		coverage := float64(resolved) / float64(len(l.events))
		if coverage < minDXCCCoverage {
			p.errorf("%s: %.0f%% of contacts resolved, want at least %.0f%%",
				l.path, coverage*100, minDXCCCoverage*100)
		}
	}
	return p
}

// ── Phase 3: Geometry ──
// Contacts with both locators must carry a finite distance and bearing.

func validateGeometry(logs []parsedLog) *phase {
	p := &phase{name: "Phase 3: Geometry (distance, bearing)"}

	for _, l := range logs {
		for i := range l.events {
			e := &l.events[i]
			if e.Geo == nil || e.HomeGeo == nil {
				continue
			}
			if e.DistanceKm == nil || e.BearingDeg == nil {
				p.errorf("%s %s: locators present but no distance", l.path, e.Call)
				continue
			}
			if math.IsNaN(*e.DistanceKm) || *e.DistanceKm < 0 || *e.DistanceKm > 20040 {
				p.errorf("%s %s: distance %.1f km out of range", l.path, e.Call, *e.DistanceKm)
			}
			if *e.BearingDeg < 0 || *e.BearingDeg >= 360 {
				p.errorf("%s %s: bearing %.1f out of range", l.path, e.Call, *e.BearingDeg)
			}
		}
	}
	return p
}

// ── Phase 4: Fixture ──
// Re-enriched contacts must match the fixture by ID.

func validateFixture(logs []parsedLog, fixture []domain.QsoEvent) *phase {
	p := &phase{name: "Phase 4: Fixture (re-enrichment)"}

	byID := make(map[string]*domain.QsoEvent, len(fixture))
	for i := range fixture {
		byID[fixture[i].ID] = &fixture[i]
	}

	seen := 0
	for _, l := range logs {
		for i := range l.events {
			got := &l.events[i]
			want, ok := byID[got.ID]
			if !ok {
				p.errorf("%s %s: ID %q not in fixture", l.path, got.Call, got.ID)
				continue
			}
			seen++
			compareEvents(p, got, want)
		}
	}
	if seen != len(fixture) {
		p.errorf("fixture has %d contacts, logs produced %d matching", len(fixture), seen)
	}
	return p
}

func compareEvents(p *phase, got, want *domain.QsoEvent) {
	if got.Call != want.Call {
		p.errorf("ID %s: call %q, fixture %q", got.ID, got.Call, want.Call)
	}
	if got.Locator != want.Locator {
		p.errorf("ID %s: locator %q, fixture %q", got.ID, got.Locator, want.Locator)
	}
	if got.ImportID != want.ImportID {
		p.errorf("ID %s: import_id %q, fixture %q", got.ID, got.ImportID, want.ImportID)
	}
	if (got.Entity == nil) != (want.Entity == nil) ||
		(got.Entity != nil && got.Entity.Code != want.Entity.Code) {
		p.errorf("ID %s: dxcc entity differs from fixture", got.ID)
	}
	if !floatPtrEqual(got.DistanceKm, want.DistanceKm) {
		p.errorf("ID %s: distance differs from fixture", got.ID)
	}
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return math.Abs(*a-*b) < 1e-6
}
