package hotel

import (
	"sync"
	"testing"
	"time"

	"hotelmgr/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func roomNumbers(rooms []*models.Room) []int {
	numbers := make([]int, 0, len(rooms))
	for _, r := range rooms {
		numbers = append(numbers, r.Number())
	}
	return numbers
}

func TestNew(t *testing.T) {
	t.Run("DefaultSeed", func(t *testing.T) {
		h, err := New(nil)
		require.NoError(t, err)
		assert.Equal(t, []int{101, 102, 201}, roomNumbers(h.Rooms()))
	})

	t.Run("CustomSeedKeepsOrder", func(t *testing.T) {
		h, err := New([]models.RoomSeed{
			{Number: 301, Type: "Suite", Price: 200},
			{Number: 5, Type: "Single", Price: 0},
		})
		require.NoError(t, err)
		assert.Equal(t, []int{301, 5}, roomNumbers(h.ListAvailableRooms()))
	})

	tests := []struct {
		name  string
		seeds []models.RoomSeed
		err   error
	}{
		{"Duplicate", []models.RoomSeed{{Number: 1, Type: "A"}, {Number: 1, Type: "B"}}, ErrDuplicateRoom},
		{"ZeroNumber", []models.RoomSeed{{Number: 0, Type: "A"}}, ErrInvalidRoom},
		{"NegativePrice", []models.RoomSeed{{Number: 1, Type: "A", Price: -1}}, ErrInvalidRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.seeds)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestListAvailableRoomsFresh(t *testing.T) {
	h := NewDefault()
	assert.Equal(t, []int{101, 102, 201}, roomNumbers(h.ListAvailableRooms()))
	assert.Empty(t, h.ListBookings())
}

func TestBookRoom(t *testing.T) {
	customer := models.NewCustomer("Ann", "555")

	t.Run("Success", func(t *testing.T) {
		h := NewDefault()
		b, err := h.BookRoom(customer, 102, date(2024, 1, 1), date(2024, 1, 4))
		require.NoError(t, err)

		assert.Equal(t, 240.0, b.CalculateBill())
		assert.Equal(t, []int{101, 201}, roomNumbers(h.ListAvailableRooms()))
		require.Len(t, h.ListBookings(), 1)
		assert.Same(t, b, h.ListBookings()[0])
	})

	t.Run("UnknownRoom", func(t *testing.T) {
		h := NewDefault()
		b, err := h.BookRoom(customer, 999, date(2024, 1, 1), date(2024, 1, 2))
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrRoomNotFound)
		assert.ErrorIs(t, err, ErrRoomNotBookable)
		assert.NotErrorIs(t, err, ErrRoomUnavailable)
		assert.Empty(t, h.ListBookings())
		assert.Len(t, h.ListAvailableRooms(), 3)
	})

	t.Run("BusyRoom", func(t *testing.T) {
		h := NewDefault()
		_, err := h.BookRoom(customer, 101, date(2024, 1, 1), date(2024, 1, 2))
		require.NoError(t, err)

		b, err := h.BookRoom(models.NewCustomer("Bob", "777"), 101, date(2024, 1, 1), date(2024, 1, 2))
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrRoomUnavailable)
		assert.ErrorIs(t, err, ErrRoomNotBookable)
		assert.NotErrorIs(t, err, ErrRoomNotFound)
		assert.Len(t, h.ListBookings(), 1)
		assert.Equal(t, []int{102, 201}, roomNumbers(h.ListAvailableRooms()))
	})
}

func TestCheckOut(t *testing.T) {
	h := NewDefault()
	b, err := h.BookRoom(models.NewCustomer("Ann", "555"), 201, date(2024, 5, 1), date(2024, 5, 2))
	require.NoError(t, err)

	_, err = h.BookRoom(models.NewCustomer("Bob", "777"), 101, date(2024, 5, 1), date(2024, 5, 2))
	require.NoError(t, err)

	closed, err := h.CheckOut(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, closed)
	assert.True(t, b.Room.IsAvailable())
	assert.Equal(t, []int{102, 201}, roomNumbers(h.ListAvailableRooms()))

	_, err = h.CheckOut(b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	assert.True(t, b.Room.IsAvailable())

	assert.Len(t, h.ListBookings(), 2)
	assert.Len(t, h.ActiveBookings(), 1)

	_, err = h.CheckOut(uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBooking(t *testing.T) {
	h := NewDefault()
	b, err := h.BookRoom(models.NewCustomer("Ann", "555"), 101, date(2024, 1, 1), date(2024, 1, 2))
	require.NoError(t, err)

	got, err := h.GetBooking(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = h.GetBooking(uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestEndToEndScenario(t *testing.T) {
	h := NewDefault()

	b, err := h.BookRoom(models.NewCustomer("Ann", "555"), 101, date(2024, 1, 1), date(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 100.0, b.CalculateBill())
	assert.NotContains(t, roomNumbers(h.ListAvailableRooms()), 101)

	bookings := h.ListBookings()
	require.Len(t, bookings, 1)
	assert.Contains(t, bookings[0].Describe(), "Ann")
	assert.Contains(t, bookings[0].Describe(), "Room 101")

	_, err = h.CheckOut(b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 201}, roomNumbers(h.ListAvailableRooms()))
}

func TestConcurrentBookingOfSameRoom(t *testing.T) {
	h := NewDefault()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.BookRoom(models.NewCustomer("Guest", ""), 101, date(2024, 1, 1), date(2024, 1, 2)); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Len(t, h.ListBookings(), 1)
}
