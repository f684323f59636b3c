package events

import (
	"encoding/json"
	"errors"
	"testing"

	"hotelmgr/internal/models"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	handler := func(event *Event) error {
		received = event
		callCount++
		return nil
	}

	bus.Subscribe("test_event", handler)

	payload := map[string]string{"foo": "bar"}
	if err := bus.PublishJSON("test_event", payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != "test_event" {
		t.Errorf("expected type test_event, got %s", received.Type)
	}

	var decoded map[string]string
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded["foo"] != "bar" {
		t.Errorf("expected foo=bar, got %s", decoded["foo"])
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	if err := bus.Publish(&Event{Type: "event"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusHandlerError(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	var called bool

	bus.Subscribe("event", func(_ *Event) error { return boom })
	bus.Subscribe("event", func(_ *Event) error { called = true; return nil })

	err := bus.Publish(&Event{Type: "event"})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if !called {
		t.Errorf("expected second handler to run")
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	if err := bus.Publish(&Event{Type: "unknown"}); err != nil {
		t.Errorf("Publish failed: %v", err)
	}
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}

	var nilBus *EventBus
	if err := nilBus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("nil bus PublishJSON failed: %v", err)
	}
}

func TestBookingPayloadRoundTrip(t *testing.T) {
	info := models.BookingInfo{
		ID:           "abc",
		CustomerName: "Ann",
		RoomNumber:   101,
		RoomType:     "Single",
		CheckIn:      "2024-01-01",
		CheckOut:     "2024-01-03",
		Nights:       2,
		Bill:         100,
		Status:       models.BookingActive,
	}

	bus := NewEventBus()
	var got BookingEventPayload
	bus.Subscribe(EventBookingCreated, func(ev *Event) error {
		var err error
		got, err = DecodeBookingPayload(ev)
		return err
	})

	if err := bus.PublishJSON(EventBookingCreated, NewBookingPayload(info)); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if got.BookingID != "abc" || got.RoomNumber != 101 || got.Bill != 100 {
		t.Errorf("unexpected payload: %+v", got)
	}
	if got.Status != "active" {
		t.Errorf("expected status active, got %s", got.Status)
	}
	if got.OccurredAt.IsZero() {
		t.Errorf("expected OccurredAt to be set")
	}
}
