package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hostal/pkg/client"
	"hostal/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	KafkaBrokers      []string
	KafkaEventsTopic  string
	KafkaReportsTopic string
	KafkaDLQTopic     string
	KafkaMaxAttempts  int
	KafkaBatchTimeout time.Duration
	KafkaRequireAcks  int
	KafkaCompression  string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	PerGuestNightlyFee float64
	IncludedGuests     int
	MaxGuests          int
	HoldTTL            time.Duration

	DispatchQueueSize  int
	DispatchMaxRetries int
	DispatchBackoff    time.Duration

	ReportWindowDays int
	ReportCronSpec   string
	ReportRecipients []string
	OperatorEmail    string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		KafkaBrokers:      getEnvList(EnvKafkaBrokers, DefaultKafkaBrokers),
		KafkaEventsTopic:  getEnvStr(EnvKafkaEventsTopic, DefaultKafkaEventsTopic),
		KafkaReportsTopic: getEnvStr(EnvKafkaReportsTopic, DefaultKafkaReportsTopic),
		KafkaDLQTopic:     getEnvStr(EnvKafkaDLQTopic, DefaultKafkaDLQTopic),
		KafkaMaxAttempts:  getEnvNum(EnvKafkaMaxAttempts, DefaultKafkaMaxAttempts),
		KafkaBatchTimeout: getEnvDuration(EnvKafkaBatchTimeout, DefaultKafkaBatchTimeout),
		KafkaRequireAcks:  getEnvNum(EnvKafkaRequireAcks, DefaultKafkaRequireAcks),
		KafkaCompression:  getEnvStr(EnvKafkaCompression, DefaultKafkaCompression),

		SMTPHost:     getEnvStr(EnvSMTPHost, DefaultSMTPHost),
		SMTPPort:     getEnvStr(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: getEnvStr(EnvSMTPUsername, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		MailFrom:     getEnvStr(EnvMailFrom, DefaultMailFrom),

		PerGuestNightlyFee: getEnvFloat(EnvPerGuestNightlyFee, DefaultPerGuestNightlyFee),
		IncludedGuests:     getEnvNum(EnvIncludedGuests, DefaultIncludedGuests),
		MaxGuests:          getEnvNum(EnvMaxGuests, DefaultMaxGuests),
		HoldTTL:            getEnvDuration(EnvHoldTTL, DefaultHoldTTL),

		DispatchQueueSize:  getEnvNum(EnvDispatchQueueSize, DefaultDispatchQueueSize),
		DispatchMaxRetries: getEnvNum(EnvDispatchMaxRetries, DefaultDispatchMaxRetries),
		DispatchBackoff:    getEnvDuration(EnvDispatchBackoff, DefaultDispatchBackoff),

		ReportWindowDays: getEnvNum(EnvReportWindowDays, DefaultReportWindowDays),
		ReportCronSpec:   getEnvStr(EnvReportCronSpec, DefaultReportCronSpec),
		ReportRecipients: getEnvList(EnvReportRecipients, ""),
		OperatorEmail:    getEnvStr(EnvOperatorEmail, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"HoldTTL":          cfg.HoldTTL,
		"DispatchBackoff":  cfg.DispatchBackoff,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if len(cfg.KafkaBrokers) == 0 {
		problems = append(problems, "KafkaBrokers cannot be empty")
	}
	if cfg.PerGuestNightlyFee < 0 {
		problems = append(problems, fmt.Sprintf("PerGuestNightlyFee cannot be negative, got: %.2f", cfg.PerGuestNightlyFee))
	}
	if cfg.IncludedGuests < 1 {
		problems = append(problems, fmt.Sprintf("IncludedGuests must be at least 1, got: %d", cfg.IncludedGuests))
	}
	if cfg.MaxGuests < cfg.IncludedGuests {
		problems = append(problems, fmt.Sprintf("MaxGuests (%d) must be >= IncludedGuests (%d)", cfg.MaxGuests, cfg.IncludedGuests))
	}
	if cfg.DispatchQueueSize <= 0 {
		problems = append(problems, fmt.Sprintf("DispatchQueueSize must be positive, got: %d", cfg.DispatchQueueSize))
	}
	if cfg.DispatchMaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("DispatchMaxRetries cannot be negative, got: %d", cfg.DispatchMaxRetries))
	}
	if cfg.ReportWindowDays <= 0 {
		problems = append(problems, fmt.Sprintf("ReportWindowDays must be positive, got: %d", cfg.ReportWindowDays))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_events_topic", cfg.KafkaEventsTopic,
		"kafka_reports_topic", cfg.KafkaReportsTopic,
		"smtp_host", cfg.SMTPHost,
		"smtp_auth_set", cfg.SMTPUsername != "",
		"mail_from", cfg.MailFrom,
		"per_guest_nightly_fee", cfg.PerGuestNightlyFee,
		"included_guests", cfg.IncludedGuests,
		"max_guests", cfg.MaxGuests,
		"hold_ttl", cfg.HoldTTL,
		"dispatch_queue_size", cfg.DispatchQueueSize,
		"dispatch_max_retries", cfg.DispatchMaxRetries,
		"report_window_days", cfg.ReportWindowDays,
		"report_cron_spec", cfg.ReportCronSpec,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnvStr(key, fallback)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
