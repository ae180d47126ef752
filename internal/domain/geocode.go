package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

// ErrPlaceNotFound is returned by LocatePlace when the geocoder has no match.
var ErrPlaceNotFound = errors.New("place not found")

// EnrichWithGeocoding names the place at the centre of the remote locator.
// If geocoder is nil the event is returned unchanged; if geocoding fails the
// event is returned with GeoSource "failed" (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, event QsoEvent, geocoder Geocoder, logger *slog.Logger) QsoEvent {
	if geocoder == nil {
		return event
	}
	if event.Geo == nil {
		event.GeoSource = GeoSourceOriginal
		return event
	}

	result, err := geocoder.ReverseGeocode(ctx, event.Geo.Lat, event.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"event_id", event.ID,
			"locator", event.Locator,
			"error", err,
		)
		event.GeoSource = GeoSourceFailed
		return event
	}
	if result.FormattedAddress == "" {
		event.GeoSource = GeoSourceOriginal
		return event
	}

	event.FormattedAddress = result.FormattedAddress
	event.PlaceName = result.PlaceName
	event.GeoConfidence = result.Confidence
	event.GeoSource = GeoSourceReverse
	return event
}

// PlaceLocator is a geocoded place and its locator.
type PlaceLocator struct {
	Locator string          `json:"locator"`
	Place   GeocodingResult `json:"place"`
}

// LocatePlace forward geocodes a place name ("Prague", "Brno, CZ") and encodes
// the result as a locator of the given precision.
func LocatePlace(ctx context.Context, geocoder Geocoder, query string, p maidenhead.Precision) (PlaceLocator, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return PlaceLocator{}, errors.New("locate place: empty query")
	}

	result, err := geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		return PlaceLocator{}, fmt.Errorf("locate %q: %w", query, err)
	}
	if result.FormattedAddress == "" {
		return PlaceLocator{}, fmt.Errorf("locate %q: %w", query, ErrPlaceNotFound)
	}

	loc, ok := maidenhead.Encode(result.Lon, result.Lat, p)
	if !ok {
		return PlaceLocator{}, fmt.Errorf("locate %q: %w", query, maidenhead.ErrInvalidLocator)
	}
	return PlaceLocator{Locator: loc, Place: result}, nil
}
