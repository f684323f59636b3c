package service

import (
	"context"
	"errors"
	"time"

	"hotelmgr/internal/domain"
	"hotelmgr/internal/events"
	"hotelmgr/internal/hotel"
	"hotelmgr/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidDateRange is returned when check-out precedes check-in.
var ErrInvalidDateRange = errors.New("check-out date must not be before check-in date")

const (
	ReasonInvalidDates    = "invalid_dates"
	ReasonRoomNotFound    = "room_not_found"
	ReasonRoomUnavailable = "room_unavailable"
	ReasonError           = "error"
)

type BookingService struct {
	inventory domain.Inventory
	eventBus  domain.EventPublisher
	recorder  domain.Recorder
	logger    *zerolog.Logger
}

func NewBookingService(inventory domain.Inventory, eventBus domain.EventPublisher, recorder domain.Recorder, logger *zerolog.Logger) *BookingService {
	s := &BookingService{
		inventory: inventory,
		eventBus:  eventBus,
		recorder:  recorder,
		logger:    logger,
	}
	s.updateAvailability()
	return s
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *BookingService) ListRooms(ctx context.Context) []*models.Room {
	return s.inventory.Rooms()
}

func (s *BookingService) ListAvailableRooms(ctx context.Context) []*models.Room {
	return s.inventory.ListAvailableRooms()
}

// BookRoom validates the stay and books the room. Dates are reduced to whole days.
func (s *BookingService) BookRoom(ctx context.Context, customer models.Customer, roomNumber int, checkIn, checkOut time.Time) (*models.Booking, error) {
	checkIn, checkOut = Day(checkIn), Day(checkOut)
	if checkOut.Before(checkIn) {
		s.reject(ReasonInvalidDates, roomNumber, ErrInvalidDateRange)
		return nil, ErrInvalidDateRange
	}

	booking, err := s.inventory.BookRoom(customer, roomNumber, checkIn, checkOut)
	if err != nil {
		s.reject(rejectReason(err), roomNumber, err)
		return nil, err
	}

	bill := booking.CalculateBill()
	s.logger.Info().
		Str("booking_id", booking.ID.String()).
		Int("room", roomNumber).
		Str("check_in", checkIn.Format(models.DateLayout)).
		Str("check_out", checkOut.Format(models.DateLayout)).
		Int64("nights", booking.Nights()).
		Float64("bill", bill).
		Msg("Booking successful")

	if s.recorder != nil {
		s.recorder.BookingCreated(bill)
	}
	s.updateAvailability()
	s.publishEvent(events.EventBookingCreated, booking)

	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) []*models.Booking {
	return s.inventory.ListBookings()
}

// ActiveBookings returns bookings that have not been checked out.
func (s *BookingService) ActiveBookings(ctx context.Context) []*models.Booking {
	return s.inventory.ActiveBookings()
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.inventory.GetBooking(id)
}

func (s *BookingService) CheckOut(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.inventory.CheckOut(id)
	if err != nil {
		s.logger.Warn().Err(err).Str("booking_id", id.String()).Msg("Checkout failed")
		return booking, err
	}

	s.logger.Info().
		Str("booking_id", id.String()).
		Int("room", booking.Room.Number()).
		Msg("Checked out")

	if s.recorder != nil {
		s.recorder.BookingCheckedOut()
	}
	s.updateAvailability()
	s.publishEvent(events.EventBookingCheckedOut, booking)

	return booking, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, hotel.ErrRoomNotFound):
		return ReasonRoomNotFound
	case errors.Is(err, hotel.ErrRoomUnavailable):
		return ReasonRoomUnavailable
	default:
		return ReasonError
	}
}

func (s *BookingService) reject(reason string, roomNumber int, err error) {
	s.logger.Warn().Err(err).Int("room", roomNumber).Str("reason", reason).Msg("Booking rejected")
	if s.recorder != nil {
		s.recorder.BookingRejected(reason)
	}
}

func (s *BookingService) updateAvailability() {
	if s.recorder == nil {
		return
	}
	s.recorder.SetAvailableRooms(len(s.inventory.ListAvailableRooms()))
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.NewBookingPayload(booking.Info())
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID.String()).Msg("publish event error")
	}
}
