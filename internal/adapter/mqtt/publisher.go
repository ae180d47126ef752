// Package mqtt publishes enriched QSO events to an MQTT broker so live map
// clients can follow an import as it is processed.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/hamgrid/internal/config"
	"github.com/couchcryptid/hamgrid/internal/domain"
)

const (
	connectTimeout = 30 * time.Second
	publishTimeout = 10 * time.Second
	quiesceMillis  = 250
)

// Publisher implements pipeline.BatchLoader. Each event goes to
// <topic>/<import_id> with QoS 0.
type Publisher struct {
	client paho.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the configured broker.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetOnConnectHandler(func(paho.Client) {
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", "broker", cfg.MQTTBroker, "error", err)
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timeout", cfg.MQTTBroker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.MQTTBroker, err)
	}
	return newPublisher(client, cfg.MQTTTopic, logger), nil
}

func newPublisher(client paho.Client, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, topic: topic, logger: logger}
}

// LoadBatch publishes every event and stops at the first failure.
func (p *Publisher) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for _, event := range events {
		topic := p.topicFor(event)
		token := p.client.Publish(topic, 0, false, event.Value)
		if err := waitToken(ctx, token); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
	}
	return nil
}

// CheckReadiness reports whether the broker connection is up.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.client.IsConnectionOpen() {
		return errors.New("mqtt broker not connected")
	}
	return nil
}

func (p *Publisher) Close() error {
	p.client.Disconnect(quiesceMillis)
	return nil
}

func (p *Publisher) topicFor(event domain.OutputEvent) string {
	if id := event.Headers[domain.HeaderImportID]; id != "" {
		return p.topic + "/" + id
	}
	return p.topic
}

func waitToken(ctx context.Context, token paho.Token) error {
	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errors.New("timeout")
	}
}
