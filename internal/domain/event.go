package domain

import (
	"context"
	"time"
)

// Message headers on the source and sink topics.
const (
	HeaderFormat       = "format"
	HeaderFilename     = "filename"
	HeaderSourceFormat = "source_format"
	HeaderImportID     = "import_id"
	HeaderProcessedAt  = "processed_at"
)

// Geo source values set by EnrichWithGeocoding.
const (
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

// RawEvent represents an unprocessed message from the source topic. Value
// holds the bytes of one uploaded log file.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Station is the operator's own station, used when a log does not say where
// it was made from.
type Station struct {
	Callsign string `json:"callsign,omitempty" toml:"callsign"`
	Locator  string `json:"locator,omitempty" toml:"gridsquare"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Entity is the DXCC entity a contacted call resolved to.
type Entity struct {
	Code   int    `json:"code"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// Exchange is the contest exchange in one direction.
type Exchange struct {
	Report string `json:"report,omitempty"`
	Code   string `json:"code,omitempty"`
	Raw    string `json:"raw,omitempty"`
}

// QsoEvent is one contact after enrichment, as published to the sink.
type QsoEvent struct {
	ID           string     `json:"id"`
	ImportID     string     `json:"import_id"`
	SourceFormat string     `json:"source_format"`
	Call         string     `json:"call"`
	MyCall       string     `json:"my_call,omitempty"`
	Mode         string     `json:"mode,omitempty"`
	ModeClass    string     `json:"mode_class"`
	Date         string     `json:"date,omitempty"`
	Time         string     `json:"time,omitempty"`
	QsoTime      *time.Time `json:"qso_time,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	Sent         Exchange   `json:"sent"`
	Received     Exchange   `json:"received"`

	Locator    string   `json:"locator,omitempty"`
	MyLocator  string   `json:"my_locator,omitempty"`
	Geo        *Geo     `json:"geo,omitempty"`
	HomeGeo    *Geo     `json:"home_geo,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	BearingDeg *float64 `json:"bearing_deg,omitempty"`
	Entity     *Entity  `json:"dxcc,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
