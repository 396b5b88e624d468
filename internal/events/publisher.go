package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/logging"
	"nriassist/internal/workflow"
)

// Publisher emits transition events.
type Publisher interface {
	Publish(ctx context.Context, change workflow.Change, at time.Time) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, workflow.Change, time.Time) error { return nil }

func (NopPublisher) Close() error { return nil }

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes CloudEvents envelopes to a Kafka topic.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	source  string
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// KafkaOption customises a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithWriter replaces the kafka writer. Used by tests.
func WithWriter(w messageWriter) KafkaOption {
	return func(p *KafkaPublisher) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithCatalog sets the catalog used for ordinals.
func WithCatalog(cat *catalog.Catalog) KafkaOption {
	return func(p *KafkaPublisher) {
		if cat != nil {
			p.catalog = cat
		}
	}
}

// NewKafkaPublisher builds a publisher for cfg.
func NewKafkaPublisher(cfg config.Events, logger *slog.Logger, opts ...KafkaOption) (*KafkaPublisher, error) {
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return nil, errors.New("events: topic is required")
	}
	p := &KafkaPublisher{
		topic:   topic,
		source:  cfg.Source,
		catalog: catalog.Default(),
		logger:  logging.NewComponentLogger(logger, "events"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		if len(cfg.Brokers) == 0 {
			return nil, errors.New("events: at least one broker is required")
		}
		p.writer = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireAll,
			MaxAttempts:            3,
			WriteTimeout:           10 * time.Second,
		}
	}
	return p, nil
}

// Publish writes one event for change.
func (p *KafkaPublisher) Publish(ctx context.Context, change workflow.Change, at time.Time) error {
	event, err := Envelope(p.source, NewTransition(p.catalog, change, at))
	if err != nil {
		return err
	}
	value, err := Encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(change.Application.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/cloudevents+json")},
			{Key: "ce_type", Value: []byte(TypeTransitioned)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish transition %s: %w", change.Application.ID, err)
	}
	p.logger.Debug("transition event published",
		logging.String(logging.FieldApplicationID, change.Application.ID),
		logging.String("event_id", event.ID()),
		logging.String("topic", p.topic),
	)
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// New returns a KafkaPublisher when events are enabled and a NopPublisher
// otherwise.
func New(cfg config.Events, logger *slog.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	return NewKafkaPublisher(cfg, logger)
}
