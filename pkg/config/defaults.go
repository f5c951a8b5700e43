package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hostal"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultKafkaBrokers      = "localhost:9092"
	DefaultKafkaEventsTopic  = "reservations.events"
	DefaultKafkaReportsTopic = "analytics.reports"
	DefaultKafkaDLQTopic     = "reservations.events.dlq"
	DefaultKafkaMaxAttempts  = 3
	DefaultKafkaBatchTimeout = 100 * time.Millisecond
	DefaultKafkaRequireAcks  = -1 // all
	DefaultKafkaCompression  = "snappy"

	DefaultSMTPHost = "localhost"
	DefaultSMTPPort = "587"
	DefaultMailFrom = "reservas@hostal.example"

	// Each guest above the included two adds this much per night.
	DefaultPerGuestNightlyFee = 15.0
	DefaultIncludedGuests     = 2
	DefaultMaxGuests          = 8

	// Advisory holds auto-expire so a crashed request cannot block a room.
	DefaultHoldTTL = 10 * time.Second

	DefaultDispatchQueueSize  = 256
	DefaultDispatchMaxRetries = 3
	DefaultDispatchBackoff    = 250 * time.Millisecond

	DefaultReportWindowDays = 30
	DefaultReportCronSpec   = "0 0 * * *"

	DefaultPaginationLimit = 100
)
