package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/observability"
)

// Sink is one destination of a FanoutLoader. A failing required sink fails
// the batch; a failing optional sink is logged and counted.
type Sink struct {
	Name     string
	Loader   BatchLoader
	Required bool
}

// FanoutLoader writes every batch to several sinks in order.
type FanoutLoader struct {
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFanoutLoader creates a loader over the given sinks.
func NewFanoutLoader(logger *slog.Logger, metrics *observability.Metrics, sinks ...Sink) *FanoutLoader {
	return &FanoutLoader{sinks: sinks, logger: logger, metrics: metrics}
}

func (f *FanoutLoader) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for _, s := range f.sinks {
		if err := s.Loader.LoadBatch(ctx, events); err != nil {
			f.metrics.SinkPublish.WithLabelValues(s.Name, "error").Inc()
			if s.Required {
				return fmt.Errorf("%s sink: %w", s.Name, err)
			}
			f.logger.Warn("optional sink failed", "sink", s.Name, "error", err, "batch_size", len(events))
			continue
		}
		f.metrics.SinkPublish.WithLabelValues(s.Name, "success").Inc()
	}
	return nil
}
