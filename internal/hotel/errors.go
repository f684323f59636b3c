package hotel

import "errors"

var (
	// ErrRoomNotBookable matches both ErrRoomNotFound and ErrRoomUnavailable
	// for callers that do not care which one happened.
	ErrRoomNotBookable = errors.New("room not available or does not exist")

	ErrRoomNotFound      = &bookingError{msg: "room does not exist"}
	ErrRoomUnavailable   = &bookingError{msg: "room is already booked"}
	ErrBookingNotFound   = errors.New("booking not found")
	ErrAlreadyCheckedOut = errors.New("booking already checked out")
	ErrDuplicateRoom     = errors.New("duplicate room number")
	ErrInvalidRoom       = errors.New("invalid room")
)

type bookingError struct {
	msg string
}

func (e *bookingError) Error() string {
	return e.msg
}

func (e *bookingError) Is(target error) bool {
	return target == ErrRoomNotBookable
}
