package models

const DateLayout = "2006-01-02"

const (
	StepMainMenu      = "main_menu"
	StepEnterName     = "enter_name"
	StepEnterPhone    = "enter_phone"
	StepEnterRoom     = "enter_room"
	StepEnterCheckIn  = "enter_check_in"
	StepEnterCheckOut = "enter_check_out"
	StepCheckOut      = "check_out"
)

const (
	// DefaultSessionTTL время жизни состояния диалога консоли в секундах
	DefaultSessionTTL = 60 * 60

	// DefaultHTTPPort порт HTTP API по умолчанию
	DefaultHTTPPort = 8080

	// DefaultPrometheusPort порт метрик по умолчанию
	DefaultPrometheusPort = 9090

	// DefaultBrokerQueue очередь событий бронирования
	DefaultBrokerQueue = "hotel.bookings"

	// EventQueueSize размер очереди воркера событий
	EventQueueSize = 256
)

// DefaultRooms is the reference seed inventory.
func DefaultRooms() []RoomSeed {
	return []RoomSeed{
		{Number: 101, Type: "Single", Price: 50},
		{Number: 102, Type: "Double", Price: 80},
		{Number: 201, Type: "Suite", Price: 150},
	}
}
