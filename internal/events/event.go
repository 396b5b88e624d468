package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"

	"nriassist/internal/catalog"
	"nriassist/internal/workflow"
)

// TypeTransitioned is the CloudEvents type of a status change.
const TypeTransitioned = "com.nriassist.application.transitioned"

// DefaultSource is used when no source is configured.
const DefaultSource = "nriassist/workflow"

// Transition is the event payload.
type Transition struct {
	ApplicationID string              `json:"applicationId"`
	AccountType   catalog.AccountType `json:"accountType"`
	From          catalog.Status      `json:"from"`
	To            catalog.Status      `json:"to"`
	Role          catalog.Role        `json:"role"`
	FromOrdinal   int                 `json:"fromOrdinal"`
	ToOrdinal     int                 `json:"toOrdinal"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// NewTransition builds the payload for change using cat for ordinals.
func NewTransition(cat *catalog.Catalog, change workflow.Change, at time.Time) Transition {
	if cat == nil {
		cat = catalog.Default()
	}
	return Transition{
		ApplicationID: change.Application.ID,
		AccountType:   change.Application.AccountType,
		From:          change.From,
		To:            change.To,
		Role:          change.Role,
		FromOrdinal:   cat.Ordinal(change.From),
		ToOrdinal:     cat.Ordinal(change.To),
		OccurredAt:    at.UTC(),
	}
}

// Envelope wraps payload in a CloudEvents event.
func Envelope(source string, payload Transition) (cloudevents.Event, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = DefaultSource
	}
	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetSource(source)
	event.SetType(TypeTransitioned)
	event.SetSubject(payload.ApplicationID)
	event.SetTime(payload.OccurredAt)
	if err := event.SetData(cloudevents.ApplicationJSON, payload); err != nil {
		return cloudevents.Event{}, fmt.Errorf("set event data: %w", err)
	}
	if err := event.Validate(); err != nil {
		return cloudevents.Event{}, fmt.Errorf("validate event: %w", err)
	}
	return event, nil
}

// Encode renders event in structured JSON mode.
func Encode(event cloudevents.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

// Decode parses a structured JSON envelope and its transition payload.
func Decode(value []byte) (cloudevents.Event, Transition, error) {
	var event cloudevents.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return cloudevents.Event{}, Transition{}, fmt.Errorf("decode event: %w", err)
	}
	if event.Type() != TypeTransitioned {
		return event, Transition{}, fmt.Errorf("decode event: unexpected type %q", event.Type())
	}
	var payload Transition
	if err := event.DataAs(&payload); err != nil {
		return event, Transition{}, fmt.Errorf("decode event data: %w", err)
	}
	return event, payload, nil
}
