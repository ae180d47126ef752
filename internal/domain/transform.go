package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/geo"
	"github.com/couchcryptid/hamgrid/internal/logimport"
	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

// importNamespace scopes import IDs so they never collide with other
// name-based UUIDs.
var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:hamgrid:import"))

// ParseRawLog decodes and parses the log file carried by a source message.
// The format comes from the "format" header, else it is detected from the
// "filename" header and the content.
func ParseRawLog(raw RawEvent) (logimport.Result, error) {
	text := logimport.Decode(raw.Value)

	format := logimport.ParseFormat(raw.Headers[HeaderFormat])
	if format == logimport.FormatUnknown {
		format = logimport.DetectFormat(raw.Headers[HeaderFilename], text)
	}

	res, err := logimport.Parse(format, text)
	if err != nil {
		return logimport.Result{}, fmt.Errorf("parse raw log: %w", err)
	}
	return res, nil
}

// ImportID derives the batch ID for a log file. It is a name-based UUID of
// the file bytes, so replaying the same upload yields the same ID.
func ImportID(raw []byte) string {
	return uuid.NewSHA1(importNamespace, raw).String()
}

// EnrichQso turns a normalized contact into a QsoEvent: DXCC entity, remote
// and home coordinates, distance, bearing and mode class. The home locator is
// the one from the log, falling back to station. A nil resolver skips DXCC.
func EnrichQso(q logimport.NormalizedQso, station Station, resolver dxcc.Resolver) QsoEvent {
	event := QsoEvent{
		ID:           generateID(q),
		SourceFormat: string(q.SourceFormat),
		Call:         q.Call,
		MyCall:       firstNonEmpty(q.MyCall, normalizeToken(station.Callsign)),
		Mode:         q.Mode,
		ModeClass:    string(logimport.ClassifyMode(q.Mode)),
		Date:         q.Date,
		Time:         q.Time,
		QsoTime:      parseQsoTime(q.Date, q.Time),
		Frequency:    q.Frequency,
		Sent:         Exchange{Report: q.SentReport, Code: q.SentCode, Raw: q.SentExchangeRaw},
		Received:     Exchange{Report: q.RcvReport, Code: q.RcvCode, Raw: q.RcvExchangeRaw},
		Locator:      q.Locator,
		MyLocator:    firstNonEmpty(q.MyLocator, normalizeToken(station.Locator)),
	}

	if resolver != nil {
		if m, ok := resolver.Resolve(q.Call, false); ok {
			event.Entity = &Entity{Code: m.EntityCode, Name: m.Name, Prefix: m.Prefix}
		}
	}

	if lon, lat, ok := maidenhead.CenterOf(event.Locator); ok {
		event.Geo = &Geo{Lat: lat, Lon: lon}
	}
	if lon, lat, ok := maidenhead.CenterOf(event.MyLocator); ok {
		event.HomeGeo = &Geo{Lat: lat, Lon: lon}
	}
	if event.Geo != nil && event.HomeGeo != nil {
		km := geo.HaversineKm(event.HomeGeo.Lon, event.HomeGeo.Lat, event.Geo.Lon, event.Geo.Lat)
		brg := geo.InitialBearing(event.HomeGeo.Lon, event.HomeGeo.Lat, event.Geo.Lon, event.Geo.Lat)
		event.DistanceKm = &km
		event.BearingDeg = &brg
	}

	event.ProcessedAt = clock.Now()
	return event
}

// EnrichResult enriches every contact of a parsed log and stamps them with
// the same import ID. The operator call from the log header takes precedence
// over the station callsign.
func EnrichResult(res logimport.Result, importID string, station Station, resolver dxcc.Resolver) []QsoEvent {
	if res.MyCall != "" {
		station.Callsign = res.MyCall
	}
	events := make([]QsoEvent, 0, len(res.Qsos))
	for _, q := range res.Qsos {
		e := EnrichQso(q, station, resolver)
		e.ImportID = importID
		events = append(events, e)
	}
	return events
}

// generateID produces a deterministic ID from the contact's key fields, so
// reprocessing the same log produces the same IDs. Frequency, mode and the
// source line keep contacts with the same call and minute apart.
func generateID(q logimport.NormalizedQso) string {
	input := strings.Join([]string{
		string(q.SourceFormat), q.Call, q.Date, q.Time, q.Locator,
		q.Frequency, q.Mode, q.RawLine,
	}, "|")
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if q.SourceFormat == logimport.FormatUnknown {
		return short
	}
	return string(q.SourceFormat) + "-" + short
}

// parseQsoTime combines a YYYY-MM-DD date with an optional HH:MM time in UTC.
// Returns nil when the date is missing or malformed.
func parseQsoTime(date, hhmm string) *time.Time {
	if date == "" {
		return nil
	}
	layout, value := "2006-01-02", date
	if hhmm != "" {
		layout, value = "2006-01-02 15:04", date+" "+hhmm
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func normalizeToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
