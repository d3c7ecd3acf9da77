package main

import (
	"slotwise/internal/scheduling/handler"
	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/service"
	"slotwise/internal/scheduling/validator"
	"slotwise/internal/tools"
	"slotwise/pkg/app"
	"slotwise/pkg/broadcast"
	"slotwise/pkg/config"
	"slotwise/pkg/contracts"
	"slotwise/pkg/kafka"
)

const ServiceName = "scheduler"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting scheduler service")

	toolsHandler, appHandlers := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(toolsHandler, appHandlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) (contracts.Handler, []contracts.Handler) {
	broadcaster := initBroadcaster(cfg)

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewMongoBookingLockRepository(cfg)
	eventTypeRepo := repository.NewMongoEventTypeRepository(cfg)
	leadRepo := repository.NewMongoLeadRepository(cfg)
	settingsRepo := repository.NewMongoSettingsRepository(cfg)

	settingsService := service.NewSettingsService(
		settingsRepo,
		validator.NewSettingsValidator(cfg.Log),
		broadcaster,
		cfg,
		cfg.Log,
	)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		eventTypeRepo,
		settingsService,
		validator.NewBookingValidator(cfg.Log),
		broadcaster,
		cfg,
		cfg.Log,
	)
	leadService := service.NewLeadService(
		leadRepo,
		settingsService,
		validator.NewLeadValidator(cfg.Log),
		broadcaster,
		cfg.Log,
	)
	eventTypeService := service.NewEventTypeService(
		eventTypeRepo,
		validator.NewEventTypeValidator(cfg.Log),
		broadcaster,
		cfg.Log,
	)

	toolRouter := tools.NewRouter(bookingService, leadService, eventTypeService, settingsService, cfg, cfg.Log)

	cfg.Log.Info("Scheduler services initialized", "database", cfg.MongoDatabaseName)

	return tools.NewHandler(toolRouter, cfg.Log), []contracts.Handler{
		handler.NewBookingHandler(bookingService, cfg, cfg.Log),
		handler.NewLeadHandler(leadService, cfg.Log),
		handler.NewEventTypeHandler(eventTypeService, cfg.Log),
		handler.NewSettingsHandler(settingsService, cfg.Log),
		handler.NewAvailabilityHandler(bookingService, cfg.Log),
	}
}

func initBroadcaster(cfg *config.Config) broadcast.Broadcaster {
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
		}
		producer = p
		cfg.Log.Info("Kafka event publishing enabled", "topic", cfg.KafkaEventsTopic)
	}

	return broadcast.New(broadcast.Config{
		Subscribers: cfg.WebhookSubscribers,
		Secret:      cfg.WebhookSecret,
		Timeout:     cfg.WebhookTimeout,
		Producer:    producer,
		Source:      ServiceName,
	}, cfg.Log)
}
