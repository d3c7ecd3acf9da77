package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotwise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTimezone               = "UTC"
	DefaultDefaultSlotDurationMin = 30
	DefaultDefaultStartOfDay      = "09:00"
	DefaultDefaultEndOfDay        = "17:00"

	DefaultWebhookTimeout = 5 * time.Second

	DefaultKafkaEventsTopic = "scheduler.events"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout = 15 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultMaxRequestSize = 1 << 20 // 1 MiB

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// Pagination bounds for list endpoints.
	DefaultPaginationLimit = 50
	MaxPaginationLimit     = 100
)
