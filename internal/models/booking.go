package models

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRoomUnavailable is returned when a booking is constructed for a room
// that is already booked.
var ErrRoomUnavailable = errors.New("room is not available")

type BookingStatus string

const (
	BookingActive     BookingStatus = "active"
	BookingCheckedOut BookingStatus = "checked_out"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Booking binds a customer to a room for a whole-day date range.
type Booking struct {
	ID           uuid.UUID
	Customer     Customer
	Room         *Room
	CheckInDate  time.Time
	CheckOutDate time.Time
	CreatedAt    time.Time

	mu           sync.RWMutex
	status       BookingStatus
	checkedOutAt time.Time
}

// BookingInfo is a flat snapshot used by reports, events and the HTTP API.
type BookingInfo struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	RoomNumber    int           `json:"room_number"`
	RoomType      string        `json:"room_type"`
	PricePerNight float64       `json:"price_per_night"`
	CheckIn       string        `json:"check_in"`
	CheckOut      string        `json:"check_out"`
	Nights        int64         `json:"nights"`
	Bill          float64       `json:"bill"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	CheckedOutAt  *time.Time    `json:"checked_out_at,omitempty"`
}

// NewBooking reserves room for customer. It fails with ErrRoomUnavailable when
// the room is already booked; the date range is not validated here.
func NewBooking(customer Customer, room *Room, checkIn, checkOut time.Time) (*Booking, error) {
	if room == nil {
		return nil, errors.New("room is required")
	}
	if !room.reserve() {
		return nil, fmt.Errorf("room %d: %w", room.Number(), ErrRoomUnavailable)
	}

	return &Booking{
		ID:           uuid.New(),
		Customer:     customer,
		Room:         room,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		CreatedAt:    time.Now().UTC(),
		status:       BookingActive,
	}, nil
}

// Nights is the number of whole days between check-in and check-out. A
// same-day stay counts as one night.
func (b *Booking) Nights() int64 {
	nights := (b.CheckOutDate.UnixMilli() - b.CheckInDate.UnixMilli()) / millisPerDay
	if nights == 0 {
		nights = 1
	}
	return nights
}

func (b *Booking) CalculateBill() float64 {
	return float64(b.Nights()) * b.Room.PricePerNight()
}

// CheckOut closes the booking and frees its room. It returns false when the
// booking was already checked out, in which case nothing changes.
func (b *Booking) CheckOut() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status == BookingCheckedOut {
		return false
	}
	b.status = BookingCheckedOut
	b.checkedOutAt = time.Now().UTC()
	b.Room.SetAvailable(true)
	return true
}

func (b *Booking) Status() BookingStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *Booking) IsActive() bool {
	return b.Status() == BookingActive
}

func (b *Booking) Info() BookingInfo {
	b.mu.RLock()
	status, checkedOutAt := b.status, b.checkedOutAt
	b.mu.RUnlock()

	info := BookingInfo{
		ID:            b.ID.String(),
		CustomerName:  b.Customer.Name,
		CustomerPhone: b.Customer.Phone,
		RoomNumber:    b.Room.Number(),
		RoomType:      b.Room.Type(),
		PricePerNight: b.Room.PricePerNight(),
		CheckIn:       b.CheckInDate.Format(DateLayout),
		CheckOut:      b.CheckOutDate.Format(DateLayout),
		Nights:        b.Nights(),
		Bill:          b.CalculateBill(),
		Status:        status,
		CreatedAt:     b.CreatedAt,
	}
	if !checkedOutAt.IsZero() {
		info.CheckedOutAt = &checkedOutAt
	}
	return info
}

// Describe returns a human readable summary of the booking.
func (b *Booking) Describe() string {
	return fmt.Sprintf("Booking for %s in %s, from %s to %s",
		b.Customer.Name, b.Room, b.CheckInDate.Format(DateLayout), b.CheckOutDate.Format(DateLayout))
}

func (b *Booking) String() string {
	return b.Describe()
}
