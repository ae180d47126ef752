package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/mockdata"
	"github.com/couchcryptid/hamgrid/internal/pipeline"
)

type stubGeocoder struct {
	reverseCalls atomic.Int64
	err          error
}

func (s *stubGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{}, errors.New("not used")
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	s.reverseCalls.Add(1)
	if s.err != nil {
		return domain.GeocodingResult{}, s.err
	}
	return domain.GeocodingResult{
		Lat:              lat,
		Lon:              lon,
		FormattedAddress: "Somewhere, Europe",
		PlaceName:        "Somewhere",
		Confidence:       0.8,
	}, nil
}

func mockResolver() dxcc.Resolver {
	return dxcc.BuildIndex(mockdata.Entities)
}

func decodeEvents(t *testing.T, out []domain.OutputEvent) []domain.QsoEvent {
	t.Helper()
	events := make([]domain.QsoEvent, 0, len(out))
	for _, o := range out {
		var e domain.QsoEvent
		require.NoError(t, json.Unmarshal(o.Value, &e))
		assert.Equal(t, e.ID, string(o.Key))
		assert.Equal(t, e.ImportID, o.Headers[domain.HeaderImportID])
		events = append(events, e)
	}
	return events
}

func TestQsoTransformer_MockLogs(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		text     string
		format   string
	}{
		{name: "edi", filename: "contest.edi", text: mockdata.EDI(), format: "edi"},
		{name: "adif", filename: "qsos.adi", text: mockdata.ADIF(), format: "adif"},
		{name: "cabrillo", filename: "contest.cbr", text: mockdata.Cabrillo(), format: "cabrillo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metrics := newTestMetrics()
			tfm := pipeline.NewTransformer(mockResolver(), nil, domain.Station{Locator: mockdata.MyLocator}, discardLogger(), metrics)

			raw := domain.RawEvent{
				Key:     []byte(tc.filename),
				Value:   []byte(tc.text),
				Headers: map[string]string{domain.HeaderFilename: tc.filename},
			}
			out, err := tfm.Transform(context.Background(), raw)
			require.NoError(t, err)
			require.Len(t, out, len(mockdata.Contacts))

			events := decodeEvents(t, out)
			importID := events[0].ImportID
			require.NotEmpty(t, importID)

			for i, e := range events {
				want := mockdata.Contacts[i]
				assert.Equal(t, want.Call, e.Call)
				assert.Equal(t, want.Locator, e.Locator)
				assert.Equal(t, tc.format, e.SourceFormat)
				assert.Equal(t, tc.format, out[i].Headers[domain.HeaderSourceFormat])
				assert.Equal(t, importID, e.ImportID, "one log, one import ID")
				assert.Equal(t, mockdata.MyCall, e.MyCall)
				assert.Equal(t, mockdata.MyLocator, e.MyLocator)

				require.NotNil(t, e.Entity, want.Call)
				assert.Equal(t, want.Entity, e.Entity.Code, want.Call)

				require.NotNil(t, e.Geo)
				require.NotNil(t, e.DistanceKm)
				assert.Positive(t, *e.DistanceKm)
				assert.Empty(t, e.GeoSource, "geocoding disabled")
			}

			assert.InDelta(t, float64(len(mockdata.Contacts)), testutil.ToFloat64(metrics.QsosParsed.WithLabelValues(tc.format)), 0)
			assert.InDelta(t, 1, testutil.ToFloat64(metrics.LinesSkipped.WithLabelValues(tc.format)), 0)
			assert.InDelta(t, float64(len(mockdata.Contacts)), testutil.ToFloat64(metrics.DxccLookups.WithLabelValues("match")), 0)
		})
	}
}

func TestQsoTransformer_DeterministicIDs(t *testing.T) {
	tfm := pipeline.NewTransformer(mockResolver(), nil, domain.Station{}, discardLogger(), newTestMetrics())
	raw := domain.RawEvent{Value: []byte(mockdata.ADIF())}

	first, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	second, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
		assert.Equal(t, first[i].Headers[domain.HeaderImportID], second[i].Headers[domain.HeaderImportID])
	}
}

func TestQsoTransformer_FormatHeaderWins(t *testing.T) {
	tfm := pipeline.NewTransformer(nil, nil, domain.Station{}, discardLogger(), newTestMetrics())
	raw := domain.RawEvent{
		Value:   []byte(mockdata.Cabrillo()),
		Headers: map[string]string{domain.HeaderFormat: "edi", domain.HeaderFilename: "contest.cbr"},
	}

	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, out, "a Cabrillo body read as EDI has no QSO section")
}

func TestQsoTransformer_UnknownFormat(t *testing.T) {
	tfm := pipeline.NewTransformer(nil, nil, domain.Station{}, discardLogger(), newTestMetrics())
	raw := domain.RawEvent{
		Value:   []byte("just some notes"),
		Headers: map[string]string{domain.HeaderFilename: "notes.txt"},
	}

	_, err := tfm.Transform(context.Background(), raw)
	require.Error(t, err)
}

func TestQsoTransformer_NoResolver(t *testing.T) {
	metrics := newTestMetrics()
	tfm := pipeline.NewTransformer(nil, nil, domain.Station{}, discardLogger(), metrics)

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(mockdata.EDI())})
	require.NoError(t, err)

	for _, e := range decodeEvents(t, out) {
		assert.Nil(t, e.Entity)
	}
	assert.InDelta(t, float64(len(out)), testutil.ToFloat64(metrics.DxccLookups.WithLabelValues("nomatch")), 0)
}

func TestQsoTransformer_Geocoding(t *testing.T) {
	geocoder := &stubGeocoder{}
	tfm := pipeline.NewTransformer(mockResolver(), geocoder, domain.Station{}, discardLogger(), newTestMetrics())

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(mockdata.EDI())})
	require.NoError(t, err)

	events := decodeEvents(t, out)
	assert.Equal(t, int64(len(events)), geocoder.reverseCalls.Load())
	for _, e := range events {
		assert.Equal(t, domain.GeoSourceReverse, e.GeoSource)
		assert.Equal(t, "Somewhere", e.PlaceName)
	}
}

func TestQsoTransformer_GeocodingFailureDegrades(t *testing.T) {
	geocoder := &stubGeocoder{err: errors.New("rate limited")}
	tfm := pipeline.NewTransformer(mockResolver(), geocoder, domain.Station{}, discardLogger(), newTestMetrics())

	out, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(mockdata.EDI())})
	require.NoError(t, err)
	require.Len(t, out, len(mockdata.Contacts))

	for _, e := range decodeEvents(t, out) {
		assert.Equal(t, domain.GeoSourceFailed, e.GeoSource)
		assert.NotNil(t, e.Entity)
	}
}
