package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"hotelmgr/internal/domain"
	"hotelmgr/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	keyName    = "name"
	keyPhone   = "phone"
	keyRoom    = "room"
	keyCheckIn = "check_in"
)

// Console is the interactive text front end. Every dialog step is kept in
// the state manager under the session ID, so a session can be resumed.
type Console struct {
	in        *bufio.Scanner
	out       io.Writer
	bookings  domain.BookingService
	state     domain.StateManager
	exporter  domain.ReportExporter
	sessionID string
	logger    *zerolog.Logger

	readOnce sync.Once
	lines    chan string
	readErr  error
}

// New builds a console. An empty sessionID starts a fresh session; exporter may be nil.
func New(
	in io.Reader,
	out io.Writer,
	bookings domain.BookingService,
	state domain.StateManager,
	exporter domain.ReportExporter,
	sessionID string,
	logger *zerolog.Logger,
) *Console {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	l := logger.With().Str("component", "console").Str("session_id", sessionID).Logger()

	return &Console{
		in:        bufio.NewScanner(in),
		out:       out,
		bookings:  bookings,
		state:     state,
		exporter:  exporter,
		sessionID: sessionID,
		logger:    &l,
		lines:     make(chan string),
	}
}

func (c *Console) SessionID() string {
	return c.sessionID
}

// Run reads commands until the exit action, end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.println(msgWelcome)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := c.currentState(ctx)
		c.prompt(state.Step)

		line, ok, err := c.readLine(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if exit := c.handle(ctx, state, line); exit {
			return nil
		}
	}
}

func (c *Console) currentState(ctx context.Context) *models.SessionState {
	state, err := c.state.GetSessionState(ctx, c.sessionID)
	if err != nil || state == nil || state.Step == "" {
		return &models.SessionState{SessionID: c.sessionID, Step: models.StepMainMenu, Data: map[string]interface{}{}}
	}
	if state.Data == nil {
		state.Data = map[string]interface{}{}
	}
	return state
}

func (c *Console) prompt(step string) {
	switch step {
	case models.StepEnterName:
		c.print("Enter your name: ")
	case models.StepEnterPhone:
		c.print("Enter your phone number: ")
	case models.StepEnterRoom:
		c.print("Enter room number to book: ")
	case models.StepEnterCheckIn:
		c.print("Enter check-in date (yyyy-mm-dd): ")
	case models.StepEnterCheckOut:
		c.print("Enter check-out date (yyyy-mm-dd): ")
	case models.StepCheckOut:
		c.print("Enter booking ID to check out: ")
	default:
		c.print(menu)
	}
}

func (c *Console) handle(ctx context.Context, state *models.SessionState, line string) bool {
	switch state.Step {
	case models.StepEnterName:
		c.advance(ctx, state, keyName, line, models.StepEnterPhone)
	case models.StepEnterPhone:
		c.advance(ctx, state, keyPhone, line, models.StepEnterRoom)
	case models.StepEnterRoom:
		room, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			c.println(msgInvalidRoom)
			c.reset(ctx)
			return false
		}
		c.advance(ctx, state, keyRoom, room, models.StepEnterCheckIn)
	case models.StepEnterCheckIn:
		c.advance(ctx, state, keyCheckIn, strings.TrimSpace(line), models.StepEnterCheckOut)
	case models.StepEnterCheckOut:
		c.finishBooking(ctx, state, strings.TrimSpace(line))
	case models.StepCheckOut:
		c.checkOut(ctx, strings.TrimSpace(line))
	default:
		return c.handleMenu(ctx, strings.TrimSpace(line))
	}
	return false
}

func (c *Console) handleMenu(ctx context.Context, choice string) bool {
	switch choice {
	case "1":
		c.showAvailableRooms(ctx)
	case "2":
		c.setStep(ctx, models.StepEnterName, map[string]interface{}{})
	case "3":
		c.showBookings(ctx)
	case "4":
		c.println(msgGoodbye)
		c.reset(ctx)
		return true
	case "5":
		c.setStep(ctx, models.StepCheckOut, map[string]interface{}{})
	case "6":
		c.export(ctx)
	default:
		c.println(msgInvalidChoice)
	}
	return false
}

func (c *Console) showAvailableRooms(ctx context.Context) {
	rooms := c.bookings.ListAvailableRooms(ctx)
	if len(rooms) == 0 {
		c.println(msgNoRooms)
		return
	}
	c.println("Available Rooms:")
	for _, r := range rooms {
		c.println(r.String())
	}
}

func (c *Console) showBookings(ctx context.Context) {
	bookings := c.bookings.ListBookings(ctx)
	if len(bookings) == 0 {
		c.println(msgNoBookings)
		return
	}
	for _, b := range bookings {
		c.println(fmt.Sprintf("%s [ID: %s, %s]", b.Describe(), b.ID, b.Status()))
	}
}

func (c *Console) finishBooking(ctx context.Context, state *models.SessionState, checkOutRaw string) {
	defer c.reset(ctx)

	checkIn, err := ParseDate(state.GetString(keyCheckIn))
	if err != nil {
		c.println(msgInvalidDate)
		return
	}
	checkOut, err := ParseDate(checkOutRaw)
	if err != nil {
		c.println(msgInvalidDate)
		return
	}
	if checkOut.Before(checkIn) {
		c.println(msgDateOrder)
		return
	}

	customer := models.NewCustomer(state.GetString(keyName), state.GetString(keyPhone))
	roomNumber := int(state.GetInt64(keyRoom))

	booking, err := c.bookings.BookRoom(ctx, customer, roomNumber, checkIn, checkOut)
	if err != nil {
		c.println(bookingErrorMessage(err, roomNumber))
		return
	}

	c.println(fmt.Sprintf("Booking successful! Total bill: $%s", models.FormatAmount(booking.CalculateBill())))
	c.println(fmt.Sprintf("Booking ID: %s", booking.ID))
}

func (c *Console) checkOut(ctx context.Context, raw string) {
	defer c.reset(ctx)

	id, err := uuid.Parse(raw)
	if err != nil {
		c.println(msgInvalidID)
		return
	}

	booking, err := c.bookings.CheckOut(ctx, id)
	if err != nil {
		c.println(checkOutErrorMessage(err))
		return
	}
	c.println(fmt.Sprintf("Checked out. Room %d is available again.", booking.Room.Number()))
}

func (c *Console) export(ctx context.Context) {
	if c.exporter == nil {
		c.println(msgExportDisabled)
		return
	}

	path, err := c.exporter.ExportBookings(ctx, c.bookings.ListBookings(ctx))
	if err != nil {
		c.logger.Error().Err(err).Msg("export bookings")
		c.println(msgGenericError)
		return
	}
	c.println(fmt.Sprintf("Bookings report saved to %s", path))
}

func (c *Console) advance(ctx context.Context, state *models.SessionState, key string, value interface{}, next string) {
	state.Data[key] = value
	c.setStep(ctx, next, state.Data)
}

func (c *Console) setStep(ctx context.Context, step string, data map[string]interface{}) {
	if err := c.state.SetSessionState(ctx, c.sessionID, step, data); err != nil {
		c.logger.Error().Err(err).Str("step", step).Msg("save session state")
		c.println(msgGenericError)
	}
}

func (c *Console) reset(ctx context.Context) {
	if err := c.state.ClearSessionState(ctx, c.sessionID); err != nil {
		c.logger.Error().Err(err).Msg("clear session state")
	}
}

// startReader moves the blocking scanner off the Run loop so that ctx
// cancellation is seen while waiting for input.
func (c *Console) startReader() {
	c.readOnce.Do(func() {
		go func() {
			defer close(c.lines)
			for c.in.Scan() {
				c.lines <- strings.TrimRight(c.in.Text(), "\r")
			}
			c.readErr = c.in.Err()
		}()
	})
}

// readLine returns ok=false with a nil error at end of input.
func (c *Console) readLine(ctx context.Context) (string, bool, error) {
	c.startReader()

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if c.readErr != nil {
				return "", false, fmt.Errorf("read input: %w", c.readErr)
			}
			return "", false, nil
		}
		return line, true, nil
	}
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

func (c *Console) println(s string) {
	_, _ = io.WriteString(c.out, s+"\n")
}
