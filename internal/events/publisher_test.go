package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/workflow"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func sampleChange() workflow.Change {
	app := workflow.SeedApplications()[0]
	return workflow.Change{
		Application: app,
		Role:        catalog.RoleBranch,
		From:        catalog.StatusBranchReview,
		To:          catalog.StatusProcessing,
	}
}

func TestKafkaPublisherWritesCloudEvent(t *testing.T) {
	writer := &recordingWriter{}
	cfg := config.Events{Enabled: true, Topic: "nri.application.transitions", Source: "nriassist/test"}
	publisher, err := NewKafkaPublisher(cfg, nil, WithWriter(writer))
	if err != nil {
		t.Fatalf("NewKafkaPublisher: %v", err)
	}
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	if err := publisher.Publish(context.Background(), sampleChange(), at); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("wrote %d messages", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "NRI100234" {
		t.Fatalf("key = %q", msg.Key)
	}

	event, payload, err := Decode(msg.Value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if event.Source() != "nriassist/test" || event.Subject() != "NRI100234" || event.ID() == "" {
		t.Fatalf("unexpected envelope %s", event)
	}
	want := Transition{
		ApplicationID: "NRI100234",
		AccountType:   catalog.AccountNRE,
		From:          catalog.StatusBranchReview,
		To:            catalog.StatusProcessing,
		Role:          catalog.RoleBranch,
		FromOrdinal:   2,
		ToOrdinal:     3,
	}
	if !payload.OccurredAt.Equal(at) {
		t.Fatalf("occurredAt = %v, want %v", payload.OccurredAt, at)
	}
	payload.OccurredAt = time.Time{}
	if payload != want {
		t.Fatalf("payload = %+v, want %+v", payload, want)
	}

	if err := publisher.Close(); err != nil || !writer.closed {
		t.Fatalf("Close: %v (closed=%v)", err, writer.closed)
	}
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker unavailable")
	publisher, err := NewKafkaPublisher(config.Events{Topic: "t"}, nil, WithWriter(&recordingWriter{err: boom}))
	if err != nil {
		t.Fatalf("NewKafkaPublisher: %v", err)
	}
	if err := publisher.Publish(context.Background(), sampleChange(), time.Now()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestNewKafkaPublisherRequiresTopicAndBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(config.Events{Brokers: []string{"localhost:9092"}}, nil); err == nil {
		t.Fatal("expected error without topic")
	}
	if _, err := NewKafkaPublisher(config.Events{Topic: "t"}, nil); err == nil {
		t.Fatal("expected error without brokers")
	}
}

func TestNewReturnsNopWhenDisabled(t *testing.T) {
	publisher, err := New(config.Events{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := publisher.(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher, got %T", publisher)
	}
	if err := publisher.Publish(context.Background(), sampleChange(), time.Now()); err != nil {
		t.Fatalf("nop publish: %v", err)
	}
}

func TestDecodeRejectsOtherTypes(t *testing.T) {
	event, err := Envelope("", NewTransition(nil, sampleChange(), time.Now()))
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}
	if event.Source() != DefaultSource {
		t.Fatalf("source = %q", event.Source())
	}
	event.SetType("com.example.other")
	data, err := Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, _, err := Decode(data); err == nil {
		t.Fatal("expected error for foreign event type")
	}
}
