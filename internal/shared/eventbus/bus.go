package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"careerhub-client/internal/shared/logger"
)

// Event types published inside the client
const (
	EventTypeSessionStarted      = "session.started"
	EventTypeSessionCleared      = "session.cleared"
	EventTypeSessionUnauthorized = "session.unauthorized"
	EventTypeOpportunitySaved    = "opportunity.saved"
	EventTypeOpportunityUnsaved  = "opportunity.unsaved"
	EventTypeProfileUpdated      = "profile.updated"
	EventTypeRouteChanged        = "route.changed"
)

// Event represents something that happened in one component and matters to another
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// Publisher is the side of the bus used by components that only emit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Publisher
	Subscribe(eventType string, handler Handler)
	Unsubscribe(eventType string)
	GetSubscriberCount(eventType string) int
}

// EventBus delivers events in process, on the publisher's goroutine, to
// handlers in subscription order. A redirect triggered by an event is
// therefore visible as soon as Publish returns.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      logger.Logger
}

func NewEventBus(log logger.Logger) *EventBus {
	if log == nil {
		log = logger.NewNop()
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		log:      log.WithComponent("eventbus"),
	}
}

// Subscribe adds a handler for eventType.
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// Publish runs every handler of the event's type, even after one fails, and
// returns the joined handler errors. Handlers may publish or subscribe.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := append([]Handler(nil), eb.handlers[event.Type()]...)
	eb.mu.RUnlock()

	var errs []error
	for i, h := range handlers {
		if err := h(ctx, event); err != nil {
			eb.log.WithContext(ctx).Warnf("handler %d for %s from %s failed: %v", i, event.Type(), event.Source(), err)
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.Type(), i, err))
		}
	}
	return errors.Join(errs...)
}

// Unsubscribe removes all handlers for a specific event type
func (eb *EventBus) Unsubscribe(eventType string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	delete(eb.handlers, eventType)
}

// GetSubscriberCount returns the number of handlers for an event type
func (eb *EventBus) GetSubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewEvent creates an event emitted by source
func NewEvent(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
		source:    source,
	}
}

func (e *BasicEvent) Type() string         { return e.eventType }
func (e *BasicEvent) Data() interface{}    { return e.data }
func (e *BasicEvent) Timestamp() time.Time { return e.timestamp }
func (e *BasicEvent) Source() string       { return e.source }

// Reasons carried by session.unauthorized.
const (
	ReasonSessionMissing  = "missing"
	ReasonSessionRejected = "rejected"
)

// SessionPayload accompanies session.* events.
type SessionPayload struct {
	UserID int64
	Reason string
}

// OpportunityPayload accompanies opportunity.* events.
type OpportunityPayload struct {
	OpportunityID string
}

// RoutePayload accompanies route.changed events.
type RoutePayload struct {
	From   string
	To     string
	Reason string
}
