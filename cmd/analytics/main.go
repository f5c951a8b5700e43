package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"hostal/internal/analytics"
	"hostal/internal/analytics/repository"
	"hostal/pkg/config"
	"hostal/pkg/kafka"
	"hostal/pkg/mail"
)

const ServiceName = "analytics"

func main() {
	runOnce := flag.Bool("once", false, "run a single report for the current window and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Analytics service")

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		MaxAttempts:  cfg.KafkaMaxAttempts,
		BatchTimeout: cfg.KafkaBatchTimeout,
		RequireAcks:  cfg.KafkaRequireAcks,
		Compression:  cfg.KafkaCompression,
	}, cfg.KafkaReportsTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, cfg.Log)

	repo := repository.NewMongoAnalyticsRepository(cfg)
	pipeline := analytics.NewPipeline(repo, repo, repo, mailer, producer, cfg)

	if *runOnce {
		if _, err := pipeline.Run(context.Background(), windowParams(cfg)); err != nil {
			cfg.Log.Fatal("Report run failed", "error", err)
		}
		return
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.ReportCronSpec, func() {
		if _, err := pipeline.Run(context.Background(), windowParams(cfg)); err != nil {
			cfg.Log.Error("Scheduled report run failed", "error", err)
		}
	})
	if err != nil {
		cfg.Log.Fatal("Invalid report cron spec", "spec", cfg.ReportCronSpec, "error", err)
	}
	scheduler.Start()
	cfg.Log.Info("Report scheduler started", "spec", cfg.ReportCronSpec, "window_days", cfg.ReportWindowDays)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown
	cfg.Log.Info("Shutdown signal received", "signal", sig.String())

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	cfg.Log.Info("Analytics service stopped")
}

// windowParams bounds the run to the configured trailing window, whole days
// in UTC so a re-run on the same day replaces that day's report.
func windowParams(cfg *config.Config) analytics.Params {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	return analytics.Params{
		Start:      end.AddDate(0, 0, -cfg.ReportWindowDays),
		End:        end,
		DataSource: "bookings",
	}
}
