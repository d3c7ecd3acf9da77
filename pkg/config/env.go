package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvTimezone               = "SCHEDULER_TIMEZONE"
	EnvDefaultSlotDurationMin = "DEFAULT_SLOT_DURATION_MIN"
	EnvDefaultStartOfDay      = "DEFAULT_START_OF_DAY"
	EnvDefaultEndOfDay        = "DEFAULT_END_OF_DAY"

	EnvWebhookSubscribers = "WEBHOOK_SUBSCRIBERS"
	EnvWebhookSecret      = "WEBHOOK_SECRET"
	EnvWebhookTimeout     = "WEBHOOK_TIMEOUT"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaEventsTopic = "KAFKA_EVENTS_TOPIC"

	EnvToolsSharedSecret = "TOOLS_SHARED_SECRET"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
