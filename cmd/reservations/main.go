package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"hostal/internal/reservations/dispatch"
	"hostal/internal/reservations/handler"
	"hostal/internal/reservations/repository"
	"hostal/internal/reservations/service"
	"hostal/internal/reservations/validator"
	"hostal/pkg/app"
	"hostal/pkg/config"
	"hostal/pkg/kafka"
	"hostal/pkg/mail"
)

const ServiceName = "reservations"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		MaxAttempts:  cfg.KafkaMaxAttempts,
		BatchTimeout: cfg.KafkaBatchTimeout,
		RequireAcks:  cfg.KafkaRequireAcks,
		Compression:  cfg.KafkaCompression,
	}, cfg.KafkaEventsTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, cfg.Log)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		QueueSize:   cfg.DispatchQueueSize,
		MaxRetries:  cfg.DispatchMaxRetries,
		BaseBackoff: cfg.DispatchBackoff,
	}, mailer, producer, cfg.Log)
	dispatcher.Start()

	reservationService := initServices(cfg, dispatcher)

	serverApp := app.NewApplication()
	serverApp.OnShutdown("dispatcher", dispatcher.Stop)
	serverApp.OnShutdown("kafka-producer", func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	serverApp.SetApp(cfg, handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, dispatcher *dispatch.Dispatcher) service.ReservationService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	roomRepo := repository.NewMongoRoomRepository(cfg)
	customerRepo := repository.NewMongoCustomerRepository(cfg)
	holdRepo := repository.NewMongoRoomHoldRepository(cfg)

	bootstrap(cfg, bookingRepo, roomRepo, holdRepo)

	reservationValidator := validator.NewReservationValidator(cfg.Log, cfg.MaxGuests)
	reservationService := service.NewReservationService(
		bookingRepo,
		roomRepo,
		customerRepo,
		holdRepo,
		reservationValidator,
		dispatcher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

// bootstrap creates the indexes the overlap queries and the hold TTL depend
// on, and seeds the room catalog on first start.
func bootstrap(
	cfg *config.Config,
	bookingRepo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	holdRepo repository.RoomHoldRepository,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	if err := roomRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create room indexes", "error", err)
	}
	if err := holdRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create room hold indexes", "error", err)
	}
	if err := roomRepo.Seed(ctx, repository.DefaultRooms()); err != nil {
		cfg.Log.Fatal("Failed to seed room catalog", "error", err)
	}
}
