package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelmgr/internal/api"
	"hotelmgr/internal/config"
	"hotelmgr/internal/console"
	"hotelmgr/internal/domain"
	"hotelmgr/internal/events"
	"hotelmgr/internal/export"
	"hotelmgr/internal/hotel"
	"hotelmgr/internal/logging"
	"hotelmgr/internal/metrics"
	"hotelmgr/internal/queue"
	"hotelmgr/internal/repository"
	"hotelmgr/internal/service"
	"hotelmgr/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	sessionID := flag.String("session", "", "resume a console session by ID")
	flag.Parse()

	if err := run(*sessionID); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(sessionID string) error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	h, err := hotel.New(cfg.Hotel.Rooms)
	if err != nil {
		logger.Error().Err(err).Msg("Room seed is invalid")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewEventBus()
	subscribeAuditLog(eventBus, logger)

	stopForwarder, err := startForwarder(ctx, cfg, eventBus, logger)
	if err != nil {
		return err
	}
	defer stopForwarder()

	var recorder domain.Recorder
	if cfg.Monitoring.PrometheusEnabled {
		recorder = metrics.NewRecorder()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	bookingService := service.NewBookingService(h, eventBus, recorder, logger)

	redisClient, stateService := initStateService(ctx, cfg, logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}

	if cfg.API.Enabled {
		apiServer := api.NewHTTPServer(cfg.API, bookingService, logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = apiServer.Shutdown(shutdownCtx)
		}()
	}

	exporter := export.NewExcelExporter(cfg.Exports.Path, logger)

	c := console.New(os.Stdin, os.Stdout, bookingService, stateService, exporter, sessionID, logger)
	logger.Info().Str("session_id", c.SessionID()).Msg("Console started")

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "hotel-main").Logger()
	logger.Debug().Str("config_path", configPath).Int("rooms", len(cfg.Hotel.Rooms)).Msg("Config loaded")

	return cfg, &logger, closer, nil
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	ttl := time.Duration(cfg.Console.SessionTTL) * time.Second
	fallbackRepo := repository.NewMemoryStateRepository(ttl)

	if cfg.Redis.Address == "" {
		return nil, service.NewStateService(fallbackRepo, logger)
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if errPing := repository.Ping(ctx, redisClient); errPing != nil {
		logger.Warn().Err(errPing).Msg("Redis unavailable")
	}

	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(stateRepo, logger)
}

// startForwarder returns a stop func that drains queued events and closes
// the broker connection.
func startForwarder(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) (func(), error) {
	if !cfg.Broker.Enabled {
		return func() {}, nil
	}

	publisher, err := queue.Dial(cfg.Broker.URL, cfg.Broker.Queue)
	if err != nil {
		logger.Error().Err(err).Msg("Broker connection failed")
		return nil, err
	}

	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 500 * time.Millisecond, MaxDelay: 30 * time.Second, BackoffFactor: 2}
	fwdLogger := logger.With().Str("component", "event-forwarder").Logger()
	forwarder := worker.NewEventForwarder(publisher, retryPolicy, &fwdLogger)
	forwarder.Attach(bus)

	fwdCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		forwarder.Start(fwdCtx)
		close(done)
	}()

	logger.Info().Str("queue", cfg.Broker.Queue).Msg("Event forwarding enabled")
	return func() {
		cancel()
		<-done
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("Broker close failed")
		}
	}, nil
}

func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	audit := logger.With().Str("component", "audit").Logger()
	handler := func(ev *events.Event) error {
		payload, err := events.DecodeBookingPayload(ev)
		if err != nil {
			audit.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		audit.Info().
			Str("event", ev.Type).
			Str("booking_id", payload.BookingID).
			Int("room", payload.RoomNumber).
			Float64("bill", payload.Bill).
			Str("status", payload.Status).
			Msg("booking event")
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingCheckedOut, handler)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	logger.Info().Int("port", port).Msg("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
