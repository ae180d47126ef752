package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/hamgrid/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("contest.edi"),
		Value:     []byte("[MAIN]\nLOCATOR=JO70FD\n[QSO]\n"),
		Topic:     "raw-qso-logs",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: domain.HeaderFilename, Value: []byte("contest.edi")},
			{Key: domain.HeaderFormat, Value: []byte("edi")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("contest.edi"), raw.Key)
	assert.Equal(t, msg.Value, raw.Value)
	assert.Equal(t, "raw-qso-logs", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "contest.edi", raw.Headers[domain.HeaderFilename])
	assert.Equal(t, "edi", raw.Headers[domain.HeaderFormat])
	assert.Nil(t, raw.Commit, "commit is attached by the reader")
}

func TestMapMessageToRawEvent_NoHeaders(t *testing.T) {
	raw := mapMessageToRawEvent(kafkago.Message{Value: []byte("x")})
	assert.NotNil(t, raw.Headers)
	assert.Empty(t, raw.Headers)
}

func TestToMessage(t *testing.T) {
	now := time.Date(2024, 7, 6, 7, 10, 0, 0, time.UTC)
	event := domain.OutputEvent{
		Key:   []byte("edi-0123456789abcdef"),
		Value: []byte(`{"call":"OK2BSP"}`),
		Headers: map[string]string{
			domain.HeaderSourceFormat: "edi",
			domain.HeaderProcessedAt:  now.Format(time.RFC3339),
			domain.HeaderImportID:     "3f1c1d2e-0000-5000-8000-000000000000",
		},
	}

	msg := toMessage(event)

	assert.Equal(t, event.Key, msg.Key)
	assert.JSONEq(t, `{"call":"OK2BSP"}`, string(msg.Value))
	assert.Empty(t, msg.Topic, "topic is set on the writer")
	assert.Equal(t, []kafkago.Header{
		{Key: domain.HeaderImportID, Value: []byte("3f1c1d2e-0000-5000-8000-000000000000")},
		{Key: domain.HeaderProcessedAt, Value: []byte(now.Format(time.RFC3339))},
		{Key: domain.HeaderSourceFormat, Value: []byte("edi")},
	}, msg.Headers)
}
