package events

import (
	"encoding/json"
	"sync"
	"time"

	"hotelmgr/internal/models"
)

const (
	EventBookingCreated    = "booking_created"
	EventBookingCheckedOut = "booking_checked_out"
)

// BookingEventPayload describes the booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID    string    `json:"booking_id"`
	CustomerName string    `json:"customer_name"`
	RoomNumber   int       `json:"room_number"`
	RoomType     string    `json:"room_type"`
	CheckIn      string    `json:"check_in"`
	CheckOut     string    `json:"check_out"`
	Nights       int64     `json:"nights"`
	Bill         float64   `json:"bill"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewBookingPayload builds the payload from a booking snapshot.
func NewBookingPayload(info models.BookingInfo) BookingEventPayload {
	return BookingEventPayload{
		BookingID:    info.ID,
		CustomerName: info.CustomerName,
		RoomNumber:   info.RoomNumber,
		RoomType:     info.RoomType,
		CheckIn:      info.CheckIn,
		CheckOut:     info.CheckOut,
		Nights:       info.Nights,
		Bill:         info.Bill,
		Status:       string(info.Status),
		OccurredAt:   time.Now().UTC(),
	}
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
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

// Publish notifies subscribers of the event type. Handler errors are
// collected and the first one is returned after all handlers ran.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var first error
	for _, handler := range handlers {
		if err := handler(event); err != nil && first == nil {
			first = err
		}
	}
	return first
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

	return b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
}

// DecodeBookingPayload unmarshals a booking event payload.
func DecodeBookingPayload(ev *Event) (BookingEventPayload, error) {
	var payload BookingEventPayload
	err := json.Unmarshal(ev.Payload, &payload)
	return payload, err
}
