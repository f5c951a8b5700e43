package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaEventsTopic   = "KAFKA_EVENTS_TOPIC"
	EnvKafkaReportsTopic  = "KAFKA_REPORTS_TOPIC"
	EnvKafkaDLQTopic      = "KAFKA_DLQ_TOPIC"
	EnvKafkaMaxAttempts   = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaBatchTimeout  = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaRequireAcks   = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvKafkaCompression   = "KAFKA_PRODUCER_COMPRESSION"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvMailFrom     = "MAIL_FROM"

	EnvPerGuestNightlyFee = "PER_GUEST_NIGHTLY_FEE"
	EnvIncludedGuests     = "INCLUDED_GUESTS"
	EnvMaxGuests          = "MAX_GUESTS"
	EnvHoldTTL            = "ROOM_HOLD_TTL"

	EnvDispatchQueueSize  = "DISPATCH_QUEUE_SIZE"
	EnvDispatchMaxRetries = "DISPATCH_MAX_RETRIES"
	EnvDispatchBackoff    = "DISPATCH_BACKOFF_BASE"

	EnvReportWindowDays = "REPORT_WINDOW_DAYS"
	EnvReportCronSpec   = "REPORT_CRON_SPEC"
	EnvReportRecipients = "REPORT_RECIPIENTS"
	EnvOperatorEmail    = "OPERATOR_EMAIL"
)
