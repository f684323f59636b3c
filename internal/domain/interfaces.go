package domain

import (
	"context"
	"time"

	"hotelmgr/internal/models"

	"github.com/google/uuid"
)

// Inventory is the room inventory and booking registry.
type Inventory interface {
	Rooms() []*models.Room
	ListAvailableRooms() []*models.Room
	BookRoom(customer models.Customer, roomNumber int, checkIn, checkOut time.Time) (*models.Booking, error)
	ListBookings() []*models.Booking
	ActiveBookings() []*models.Booking
	GetBooking(id uuid.UUID) (*models.Booking, error)
	CheckOut(id uuid.UUID) (*models.Booking, error)
}

type StateRepository interface {
	GetState(ctx context.Context, sessionID string) (*models.SessionState, error)
	SetState(ctx context.Context, state *models.SessionState) error
	ClearState(ctx context.Context, sessionID string) error
}

type StateManager interface {
	GetSessionState(ctx context.Context, sessionID string) (*models.SessionState, error)
	SetSessionState(ctx context.Context, sessionID string, step string, data map[string]interface{}) error
	ClearSessionState(ctx context.Context, sessionID string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Recorder receives booking outcomes for metrics.
type Recorder interface {
	BookingCreated(bill float64)
	BookingRejected(reason string)
	BookingCheckedOut()
	SetAvailableRooms(n int)
}

type BookingService interface {
	ListRooms(ctx context.Context) []*models.Room
	ListAvailableRooms(ctx context.Context) []*models.Room
	BookRoom(ctx context.Context, customer models.Customer, roomNumber int, checkIn, checkOut time.Time) (*models.Booking, error)
	ListBookings(ctx context.Context) []*models.Booking
	ActiveBookings(ctx context.Context) []*models.Booking
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CheckOut(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

type ReportExporter interface {
	ExportBookings(ctx context.Context, bookings []*models.Booking) (string, error)
}
