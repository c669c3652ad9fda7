package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"stolikiApi/internal/config"
	"stolikiApi/internal/modules/booking/application/usecase"
	bookinginfra "stolikiApi/internal/modules/booking/infrastructure"
	bookingtransport "stolikiApi/internal/modules/booking/interface"
	rthandler "stolikiApi/internal/modules/realtime/application/handler"
	rtinfra "stolikiApi/internal/modules/realtime/infrastructure"
	rttransport "stolikiApi/internal/modules/realtime/interface"
	remarkedinfra "stolikiApi/internal/modules/remarked/infrastructure"
	"stolikiApi/internal/platform/broker"
	"stolikiApi/internal/shared/auth"
	"stolikiApi/internal/shared/logging"
)

func main() {
	// Load .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("database connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Provider side: gateway, client with token cache.
	gateway := remarkedinfra.NewGateway(cfg.Remarked.BaseURL, cfg.Remarked.RequestTimeout, nil)
	provider := remarkedinfra.NewClient(gateway, cfg.Remarked.TokenTTL)

	// Venue resolution: pgx store behind a TTL read cache.
	venues := bookinginfra.NewCachedVenueStore(bookinginfra.NewPostgresVenueStore(pool), cfg.Database.VenueCacheTTL)

	publisher := broker.NewKafkaPublisher(cfg.Kafka.Brokers)
	defer publisher.Close()

	createUC := usecase.NewCreateReservationUseCase(venues, provider, publisher)
	availabilityUC := usecase.NewAvailabilityUseCase(venues, provider)
	smsUC := usecase.NewSendSMSCodeUseCase(venues, provider)
	manageUC := usecase.NewManageReservesUseCase(venues, provider, publisher)

	validator := auth.NewJWTValidator(cfg.Security.JWTSecret)

	// Realtime feed: broker consumers dispatch reservation events into
	// the websocket hub.
	hub := rtinfra.NewHub()
	registry := broker.NewHandlerRegistry()
	for _, topic := range cfg.Kafka.Topics {
		registry.Register(rthandler.NewReservationStreamHandler(topic, hub))
	}
	broker.StartConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topics)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())

	e.GET("/api/v1/restaurants", bookingtransport.NewListRestaurantsHandler(venues))
	e.POST("/api/v1/booking", bookingtransport.NewCreateBookingHandler(createUC))
	e.GET("/api/v1/booking/:restaurantId/days", bookingtransport.NewDaysStatesHandler(availabilityUC))
	e.GET("/api/v1/booking/:restaurantId/slots", bookingtransport.NewSlotsHandler(availabilityUC))
	e.POST("/api/v1/booking/:restaurantId/sms", bookingtransport.NewSMSCodeHandler(smsUC))

	office := e.Group("/api/v1/office", bookingtransport.RequireStaffToken(validator))
	office.GET("/reserves", bookingtransport.NewListReservesHandler(manageUC))
	office.GET("/reserves/:id", bookingtransport.NewReserveDetailHandler(manageUC))
	office.GET("/reserves/:id/read", bookingtransport.NewReserveReadHandler(manageUC))
	office.PATCH("/reserves/:id/status", bookingtransport.NewChangeStatusHandler(manageUC))
	office.GET("/event-tags", bookingtransport.NewEventTagsHandler(manageUC))

	e.GET("/ws/notifications", rttransport.NewNotificationsHandler(hub, validator))

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", slog.Any("error", err))
	}
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	fileName := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
	})
	log.SetOutput(writer)
	log.SetFlags(0)

	return file, logger, nil
}
