package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/observability"
)

// QsoTransformer implements Transformer: it parses one uploaded log and
// enriches every contact in it, with optional geocoding.
type QsoTransformer struct {
	resolver dxcc.Resolver
	geocoder domain.Geocoder
	station  domain.Station
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a QsoTransformer. Pass a nil geocoder to disable
// geocoding enrichment and a nil resolver to skip DXCC lookups.
func NewTransformer(resolver dxcc.Resolver, geocoder domain.Geocoder, station domain.Station, logger *slog.Logger, metrics *observability.Metrics) *QsoTransformer {
	return &QsoTransformer{
		resolver: resolver,
		geocoder: geocoder,
		station:  station,
		logger:   logger,
		metrics:  metrics,
	}
}

func (t *QsoTransformer) Transform(ctx context.Context, raw domain.RawEvent) ([]domain.OutputEvent, error) {
	res, err := domain.ParseRawLog(raw)
	if err != nil {
		return nil, err
	}

	format := string(res.Format)
	t.metrics.QsosParsed.WithLabelValues(format).Add(float64(len(res.Qsos)))
	t.metrics.LinesSkipped.WithLabelValues(format).Add(float64(res.Skipped))

	importID := domain.ImportID(raw.Value)
	events := domain.EnrichResult(res, importID, t.station, t.resolver)

	out := make([]domain.OutputEvent, 0, len(events))
	for _, event := range events {
		if event.Entity != nil {
			t.metrics.DxccLookups.WithLabelValues("match").Inc()
		} else {
			t.metrics.DxccLookups.WithLabelValues("nomatch").Inc()
		}

		event = domain.EnrichWithGeocoding(ctx, event, t.geocoder, t.logger)

		msg, err := domain.SerializeQsoEvent(event)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}

	t.logger.Info("log imported",
		"import_id", importID,
		"format", format,
		"filename", raw.Headers[domain.HeaderFilename],
		"qsos", len(out),
		"skipped", res.Skipped,
	)
	return out, nil
}
