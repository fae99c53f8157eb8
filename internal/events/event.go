// Package events publishes change notifications for customers, items and
// reviews to a RabbitMQ topic exchange.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventVersion = "1.0.0"

	EntityCustomer = "customer"
	EntityItem     = "item"
	EntityReview   = "review"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event represents a domain event
type Event struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	EventVersion  string         `json:"event_version"`
	Timestamp     string         `json:"timestamp"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Payload       map[string]any `json:"payload"`
}

type correlationKey struct{}

// WithCorrelationID stores the id that events created under ctx will carry.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// New builds an event of type "<entity>.<action>" for the entity with the
// given id. payload may be nil.
func New(ctx context.Context, entity, action string, id int64, payload map[string]any) Event {
	p := map[string]any{"id": id}
	for k, v := range payload {
		p[k] = v
	}
	return Event{
		EventID:       uuid.New().String(),
		EventType:     entity + "." + action,
		EventVersion:  EventVersion,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: CorrelationID(ctx),
		Payload:       p,
	}
}

// Publisher sends events somewhere. Publish failures never undo the write
// that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	IsHealthy() bool
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) IsHealthy() bool                      { return true }
func (Nop) Close() error                         { return nil }
