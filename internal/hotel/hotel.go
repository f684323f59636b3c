package hotel

import (
	"fmt"
	"sync"
	"time"

	"hotelmgr/internal/models"

	"github.com/google/uuid"
)

// Hotel owns the room inventory and the booking registry. Rooms keep seed
// order; bookings are append-only and kept after checkout.
type Hotel struct {
	mu       sync.RWMutex
	rooms    []*models.Room
	byNumber map[int]*models.Room
	bookings []*models.Booking
	byID     map[uuid.UUID]*models.Booking
}

// New builds a hotel from a seed list. An empty list falls back to
// models.DefaultRooms.
func New(seeds []models.RoomSeed) (*Hotel, error) {
	if len(seeds) == 0 {
		seeds = models.DefaultRooms()
	}

	h := &Hotel{
		rooms:    make([]*models.Room, 0, len(seeds)),
		byNumber: make(map[int]*models.Room, len(seeds)),
		byID:     make(map[uuid.UUID]*models.Booking),
	}

	for _, seed := range seeds {
		if seed.Number <= 0 {
			return nil, fmt.Errorf("room number %d: %w", seed.Number, ErrInvalidRoom)
		}
		if seed.Price < 0 {
			return nil, fmt.Errorf("room %d has negative price: %w", seed.Number, ErrInvalidRoom)
		}
		if _, exists := h.byNumber[seed.Number]; exists {
			return nil, fmt.Errorf("room %d: %w", seed.Number, ErrDuplicateRoom)
		}
		room := models.NewRoomFromSeed(seed)
		h.rooms = append(h.rooms, room)
		h.byNumber[seed.Number] = room
	}

	return h, nil
}

// NewDefault builds a hotel with the reference seed inventory.
func NewDefault() *Hotel {
	h, err := New(models.DefaultRooms())
	if err != nil {
		panic(err)
	}
	return h
}

// Rooms returns the full inventory in seed order.
func (h *Hotel) Rooms() []*models.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*models.Room(nil), h.rooms...)
}

func (h *Hotel) ListAvailableRooms() []*models.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()

	available := make([]*models.Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		if room.IsAvailable() {
			available = append(available, room)
		}
	}
	return available
}

// BookRoom books the room with the given number. It returns ErrRoomNotFound
// for an unknown number and ErrRoomUnavailable for a booked room; both match
// ErrRoomNotBookable. The date range is the caller's responsibility.
func (h *Hotel) BookRoom(customer models.Customer, roomNumber int, checkIn, checkOut time.Time) (*models.Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.byNumber[roomNumber]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", roomNumber, ErrRoomNotFound)
	}

	booking, err := models.NewBooking(customer, room, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("room %d: %w", roomNumber, ErrRoomUnavailable)
	}

	h.bookings = append(h.bookings, booking)
	h.byID[booking.ID] = booking
	return booking, nil
}

// ListBookings returns every booking, open or closed, in booking order.
func (h *Hotel) ListBookings() []*models.Booking {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*models.Booking(nil), h.bookings...)
}

func (h *Hotel) ActiveBookings() []*models.Booking {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var active []*models.Booking
	for _, b := range h.bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	return active
}

func (h *Hotel) GetBooking(id uuid.UUID) (*models.Booking, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b, ok := h.byID[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrBookingNotFound)
	}
	return b, nil
}

// CheckOut closes the booking and makes its room available again.
func (h *Hotel) CheckOut(id uuid.UUID) (*models.Booking, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.byID[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrBookingNotFound)
	}
	if !b.CheckOut() {
		return b, fmt.Errorf("booking %s: %w", id, ErrAlreadyCheckedOut)
	}
	return b, nil
}
