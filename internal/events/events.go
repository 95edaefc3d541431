package events

import (
	"encoding/json"
	"sync"
	"time"

	"agenda/internal/models"
)

const (
	EventStoreChanged = "store_changed"

	EventAppointmentCreated   = "appointment_created"
	EventAppointmentConfirmed = "appointment_confirmed"
	EventAppointmentRejected  = "appointment_rejected"
	EventAppointmentCompleted = "appointment_completed"
)

// StoreChangedPayload identifies which blob key was written. Subscribed
// views reload their snapshot in response; this is the in-process
// analogue of a same-origin storage notification.
type StoreChangedPayload struct {
	Key string `json:"key"`
}

// AppointmentEventPayload describes the minimal appointment snapshot for
// event consumers.
type AppointmentEventPayload struct {
	AppointmentID string        `json:"appointment_id"`
	ClientName    string        `json:"client_name"`
	ClientPhone   string        `json:"client_phone"`
	ServiceID     string        `json:"service_id"`
	Date          models.Date   `json:"date"`
	Time          string        `json:"time"`
	Status        models.Status `json:"status"`
	Reason        string        `json:"reason,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
