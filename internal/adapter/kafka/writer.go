package kafka

import (
	"context"
	"log/slog"
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hamgrid/internal/config"
	"github.com/couchcryptid/hamgrid/internal/domain"
)

// Writer produces enriched QSO events to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. Events
// are keyed by QSO ID, so a replayed log lands on the same partitions.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return newWriter(cfg, cfg.KafkaSinkTopic, logger)
}

// NewUploadWriter creates a producer for the source topic. The HTTP upload
// endpoint uses it to queue log files for the pipeline.
func NewUploadWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return newWriter(cfg, cfg.KafkaSourceTopic, logger)
}

func newWriter(cfg *config.Config, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchBytes:   int64(cfg.KafkaMaxMessageBytes),
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes all events of a batch in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("published batch", "topic", w.writer.Topic, "size", len(msgs))
	return nil
}

// Publish produces a single raw log file.
func (w *Writer) Publish(ctx context.Context, raw domain.RawEvent) error {
	return w.writer.WriteMessages(ctx, toMessage(domain.OutputEvent{
		Key:     raw.Key,
		Value:   raw.Value,
		Headers: raw.Headers,
	}))
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an output event into a Kafka message. Headers are sorted
// by key so the wire form is stable.
func toMessage(event domain.OutputEvent) kafkago.Message {
	keys := make([]string, 0, len(event.Headers))
	for k := range event.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
