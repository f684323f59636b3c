package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"hotelmgr/internal/domain"
	"hotelmgr/internal/hotel"
	"hotelmgr/internal/models"
	"hotelmgr/internal/repository"
	"hotelmgr/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	path  string
	err   error
	count int
}

func (s *stubExporter) ExportBookings(ctx context.Context, bookings []*models.Booking) (string, error) {
	s.count = len(bookings)
	return s.path, s.err
}

type testEnv struct {
	hotel    *hotel.Hotel
	bookings *service.BookingService
	state    *service.StateService
	logger   zerolog.Logger
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	h := hotel.NewDefault()
	return &testEnv{
		hotel:    h,
		bookings: service.NewBookingService(h, nil, nil, &logger),
		state:    service.NewStateService(repository.NewMemoryStateRepository(time.Hour), &logger),
		logger:   logger,
	}
}

func (e *testEnv) run(t *testing.T, input string, exporter *stubExporter) string {
	t.Helper()
	var out bytes.Buffer
	var exp domain.ReportExporter
	if exporter != nil {
		exp = exporter
	}
	c := New(strings.NewReader(input), &out, e.bookings, e.state, exp, "test-session", &e.logger)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestConsole_ShowAvailableRooms(t *testing.T) {
	env := newEnv(t)
	out := env.run(t, "1\n4\n", nil)

	assert.Contains(t, out, msgWelcome)
	assert.Contains(t, out, "Available Rooms:")
	assert.Contains(t, out, "Room 101 (Single) - $50.0 per night - Available")
	assert.Contains(t, out, "Room 201 (Suite) - $150.0 per night - Available")
	assert.Contains(t, out, msgGoodbye)
}

func TestConsole_BookRoom(t *testing.T) {
	env := newEnv(t)
	out := env.run(t, "2\nAlice\n555-1234\n101\n2024-01-01\n2024-01-03\n3\n4\n", nil)

	assert.Contains(t, out, "Booking successful! Total bill: $100.0")
	assert.Contains(t, out, "Booking for Alice in Room 101 (Single) - $50.0 per night - Booked, from 2024-01-01 to 2024-01-03")

	available := env.hotel.ListAvailableRooms()
	assert.Len(t, available, 2)
	require.Len(t, env.hotel.ListBookings(), 1)
}

func TestConsole_BookRoomErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"UnknownRoom", "2\nBob\n1\n999\n2024-01-01\n2024-01-02\n4\n", "Room 999 does not exist."},
		{"InvalidRoomNumber", "2\nBob\n1\nabc\n4\n", msgInvalidRoom},
		{"InvalidDate", "2\nBob\n1\n101\n2024/1/1\n2024-01-02\n4\n", msgInvalidDate},
		{"DateOrder", "2\nBob\n1\n101\n2024-01-05\n2024-01-02\n4\n", msgDateOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			out := env.run(t, tt.input, nil)
			assert.Contains(t, out, tt.want)
			assert.Empty(t, env.hotel.ListBookings())
			assert.Contains(t, out, msgGoodbye)
		})
	}
}

func TestConsole_BookedRoomIsUnavailable(t *testing.T) {
	env := newEnv(t)
	input := "2\nA\n1\n101\n2024-01-01\n2024-01-02\n" +
		"2\nB\n2\n101\n2024-02-01\n2024-02-02\n4\n"
	out := env.run(t, input, nil)

	assert.Contains(t, out, "Room 101 is not available.")
	assert.Len(t, env.hotel.ListBookings(), 1)
}

func TestConsole_SameDayStayBilledOneNight(t *testing.T) {
	env := newEnv(t)
	out := env.run(t, "2\nC\n3\n201\n2024-01-01\n2024-01-01\n4\n", nil)
	assert.Contains(t, out, "Total bill: $150.0")
}

func TestConsole_CheckOut(t *testing.T) {
	env := newEnv(t)
	b, err := env.bookings.BookRoom(context.Background(), models.NewCustomer("D", "4"), 102,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := env.run(t, "5\n"+b.ID.String()+"\n5\n"+b.ID.String()+"\n5\nnot-a-uuid\n4\n", nil)

	assert.Contains(t, out, "Checked out. Room 102 is available again.")
	assert.Contains(t, out, "Booking is already checked out.")
	assert.Contains(t, out, msgInvalidID)
	assert.True(t, b.Room.IsAvailable())
}

func TestConsole_Export(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		env := newEnv(t)
		out := env.run(t, "6\n4\n", nil)
		assert.Contains(t, out, msgExportDisabled)
	})

	t.Run("Success", func(t *testing.T) {
		env := newEnv(t)
		exp := &stubExporter{path: "/tmp/bookings.xlsx"}
		out := env.run(t, "2\nE\n5\n101\n2024-01-01\n2024-01-02\n6\n4\n", exp)
		assert.Contains(t, out, "Bookings report saved to /tmp/bookings.xlsx")
		assert.Equal(t, 1, exp.count)
	})

	t.Run("Failure", func(t *testing.T) {
		env := newEnv(t)
		exp := &stubExporter{err: errors.New("disk full")}
		out := env.run(t, "6\n4\n", exp)
		assert.Contains(t, out, msgGenericError)
	})
}

func TestConsole_InvalidChoiceAndEOF(t *testing.T) {
	env := newEnv(t)
	out := env.run(t, "9\n", nil)
	assert.Contains(t, out, msgInvalidChoice)
	assert.NotContains(t, out, msgGoodbye)
}

func TestConsole_ResumeSession(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	// Input ends mid-dialog; a second console picks up the same session.
	env.run(t, "2\nFrank\n", nil)
	state, err := env.state.GetSessionState(ctx, "test-session")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.StepEnterPhone, state.Step)

	out := env.run(t, "777\n201\n2024-03-01\n2024-03-04\n4\n", nil)
	assert.Contains(t, out, "Total bill: $450.0")
}

func TestConsole_ContextCancelled(t *testing.T) {
	env := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(strings.NewReader("1\n"), io.Discard, env.bookings, env.state, nil, "", &env.logger)
	assert.NotEmpty(t, c.SessionID())
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestConsole_CancelWhileWaitingForInput(t *testing.T) {
	env := newEnv(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	c := New(pr, &out, env.bookings, env.state, nil, "", &env.logger)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	_, err := io.WriteString(pw, "1\n")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Contains(t, out.String(), "Available Rooms:")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-02-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-1-1")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = ParseDate("abcd-01-01")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
