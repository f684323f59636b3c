package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hotelmgr/internal/config"
	"hotelmgr/internal/domain"
	"hotelmgr/internal/hotel"
	"hotelmgr/internal/metrics"
	"hotelmgr/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// HTTPServer exposes a read-only JSON view of rooms and bookings.
type HTTPServer struct {
	cfg      config.APIConfig
	bookings domain.BookingService
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, bookings domain.BookingService, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{cfg: cfg, bookings: bookings, logger: logger}
	srv.auth = NewHTTPAuth(cfg)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Router builds the route table with middleware applied.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Handle("/rooms", s.auth.Wrap(PermReadRooms, http.HandlerFunc(s.handleRooms))).Methods(http.MethodGet)
	v1.Handle("/rooms/available", s.auth.Wrap(PermReadRooms, http.HandlerFunc(s.handleAvailableRooms))).Methods(http.MethodGet)
	v1.Handle("/bookings", s.auth.Wrap(PermReadBookings, http.HandlerFunc(s.handleBookings))).Methods(http.MethodGet)
	v1.Handle("/bookings/{id}", s.auth.Wrap(PermReadBookings, http.HandlerFunc(s.handleBooking))).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": roomInfos(s.bookings.ListRooms(r.Context()))})
}

func (s *HTTPServer) handleAvailableRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": roomInfos(s.bookings.ListAvailableRooms(r.Context()))})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	var list []*models.Booking
	switch models.BookingStatus(r.URL.Query().Get("status")) {
	case "":
		list = s.bookings.ListBookings(r.Context())
	case models.BookingActive:
		list = s.bookings.ActiveBookings(r.Context())
	case models.BookingCheckedOut:
		for _, b := range s.bookings.ListBookings(r.Context()) {
			if !b.IsActive() {
				list = append(list, b)
			}
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid status; expected active or checked_out")
		return
	}

	out := make([]models.BookingInfo, 0, len(list))
	for _, b := range list {
		out = append(out, b.Info())
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": out})
}

func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	b, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, hotel.ErrBookingNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, b.Info())
}

func roomInfos(rooms []*models.Room) []models.RoomInfo {
	out := make([]models.RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.Info())
	}
	return out
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}
		metrics.IncHTTP(endpoint)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
