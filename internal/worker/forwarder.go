package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotelmgr/internal/events"
	"hotelmgr/internal/models"

	"github.com/rs/zerolog"
)

var ErrQueueFull = errors.New("event queue is full")

// Publisher delivers a serialized event to an external broker.
type Publisher interface {
	Publish(ctx context.Context, eventType string, body []byte) error
}

// EventForwarder buffers bus events in memory and pushes them to a
// Publisher, retrying failed deliveries with backoff.
type EventForwarder struct {
	publisher   Publisher
	retryPolicy RetryPolicy
	queue       chan *events.Event
	logger      *zerolog.Logger
	sleep       func(ctx context.Context, d time.Duration) bool

	mu      sync.Mutex
	dropped int
}

// NewEventForwarder builds a forwarder with sane defaults.
func NewEventForwarder(publisher Publisher, retry RetryPolicy, logger *zerolog.Logger) *EventForwarder {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 500 * time.Millisecond
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 30 * time.Second
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &EventForwarder{
		publisher:   publisher,
		retryPolicy: retry,
		queue:       make(chan *events.Event, models.EventQueueSize),
		logger:      logger,
		sleep:       sleepCtx,
	}
}

// Attach subscribes the forwarder to every booking event type on the bus.
func (f *EventForwarder) Attach(bus *events.EventBus) {
	for _, et := range []string{events.EventBookingCreated, events.EventBookingCheckedOut} {
		bus.Subscribe(et, f.Enqueue)
	}
}

// Enqueue never blocks the publisher; a full queue drops the event.
func (f *EventForwarder) Enqueue(ev *events.Event) error {
	select {
	case f.queue <- ev:
		return nil
	default:
		f.mu.Lock()
		f.dropped++
		f.mu.Unlock()
		f.logger.Warn().Str("event_type", ev.Type).Msg("event queue full, dropping event")
		return ErrQueueFull
	}
}

func (f *EventForwarder) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// Start processes queued events until ctx is canceled, then drains what is
// already queued with a single attempt each.
func (f *EventForwarder) Start(ctx context.Context) {
	f.logger.Info().Msg("event forwarder started")
	for {
		select {
		case <-ctx.Done():
			f.drain()
			f.logger.Info().Msg("event forwarder stopped")
			return
		case ev := <-f.queue:
			f.deliver(ctx, ev)
		}
	}
}

func (f *EventForwarder) deliver(ctx context.Context, ev *events.Event) {
	for attempt := 1; ; attempt++ {
		err := f.publisher.Publish(ctx, ev.Type, ev.Payload)
		if err == nil {
			f.logger.Debug().Str("event_type", ev.Type).Int("attempt", attempt).Msg("event forwarded")
			return
		}

		if f.retryPolicy.Exhausted(attempt) {
			f.mu.Lock()
			f.dropped++
			f.mu.Unlock()
			f.logger.Error().Err(err).Str("event_type", ev.Type).Int("attempts", attempt).Msg("event forwarding failed, giving up")
			return
		}

		delay := f.retryPolicy.NextDelay(attempt)
		f.logger.Warn().Err(err).Str("event_type", ev.Type).Int("attempt", attempt).Dur("retry_in", delay).Msg("event forwarding failed")
		if !f.sleep(ctx, delay) {
			// Shutdown: leave it for drain.
			_ = f.Enqueue(ev)
			return
		}
	}
}

func (f *EventForwarder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case ev := <-f.queue:
			if err := f.publisher.Publish(ctx, ev.Type, ev.Payload); err != nil {
				f.logger.Error().Err(err).Str("event_type", ev.Type).Msg("event lost on shutdown")
			}
		default:
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
