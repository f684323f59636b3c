package console

import (
	"errors"
	"fmt"

	"hotelmgr/internal/hotel"
	"hotelmgr/internal/service"
)

const (
	msgWelcome        = "Welcome to the Hotel Management System"
	msgGoodbye        = "Thank you for using the Hotel Management System."
	msgInvalidChoice  = "Invalid choice. Try again."
	msgNoRooms        = "No rooms available at the moment."
	msgNoBookings     = "No current bookings."
	msgInvalidDate    = "Invalid date format."
	msgDateOrder      = "Check-out date must be after check-in date."
	msgInvalidRoom    = "Invalid room number."
	msgInvalidID      = "Invalid booking ID."
	msgExportDisabled = "Export is not configured."
	msgGenericError   = "Something went wrong. Please try again."
)

const menu = `
Menu:
1. Show available rooms
2. Book a room
3. Show all bookings
4. Exit
5. Check out a booking
6. Export bookings report
Choose an option: `

func bookingErrorMessage(err error, roomNumber int) string {
	switch {
	case errors.Is(err, hotel.ErrRoomNotFound):
		return fmt.Sprintf("Room %d does not exist.", roomNumber)
	case errors.Is(err, hotel.ErrRoomUnavailable):
		return fmt.Sprintf("Room %d is not available.", roomNumber)
	case errors.Is(err, hotel.ErrRoomNotBookable):
		return "Room not available or does not exist."
	case errors.Is(err, service.ErrInvalidDateRange):
		return msgDateOrder
	default:
		return msgGenericError
	}
}

func checkOutErrorMessage(err error) string {
	switch {
	case errors.Is(err, hotel.ErrBookingNotFound):
		return "Booking not found."
	case errors.Is(err, hotel.ErrAlreadyCheckedOut):
		return "Booking is already checked out."
	default:
		return msgGenericError
	}
}
