// Package dispatch runs booking side effects off the request path. The
// ledger write is the source of truth; confirmation email and analytics
// events are best-effort and must never fail a booking.
package dispatch

import (
	"context"
	"sync"
	"time"

	"hostal/pkg/kafka"
	"hostal/pkg/logger"
	"hostal/pkg/model"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

// Notifier sends guest-facing mail.
type Notifier interface {
	SendBookingConfirmation(booking *model.Booking) error
}

// Publisher hands booking events to the analytics stream.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Task is one booking plus the event that produced it.
type Task struct {
	Event   string
	Booking *model.Booking
}

type Config struct {
	QueueSize   int
	MaxRetries  int
	BaseBackoff time.Duration
	SendTimeout time.Duration
}

type Dispatcher struct {
	cfg       Config
	notifier  Notifier
	publisher Publisher
	log       *logger.Logger

	queue chan Task
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(cfg Config, notifier Notifier, publisher Publisher, log *logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 250 * time.Millisecond
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	return &Dispatcher{
		cfg:       cfg,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
		queue:     make(chan Task, cfg.QueueSize),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for task := range d.queue {
			d.process(task)
		}
	}()
	d.log.Info("Dispatcher started", "queue_size", d.cfg.QueueSize)
}

// Enqueue hands a task to the worker without blocking. A full queue drops
// the task with a warning; side effects are best-effort.
func (d *Dispatcher) Enqueue(task Task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("Dispatcher is stopped, dropping task", "event", task.Event, "booking_id", task.Booking.ID)
		return false
	}

	select {
	case d.queue <- task:
		return true
	default:
		d.log.Warn("Dispatch queue full, dropping task", "event", task.Event, "booking_id", task.Booking.ID)
		return false
	}
}

// Stop closes the queue and waits for in-flight tasks to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info("Dispatcher stopped")
}

func (d *Dispatcher) process(task Task) {
	if task.Event == EventBookingCreated && d.notifier != nil {
		d.withRetries("confirmation email", task, func() error {
			return d.notifier.SendBookingConfirmation(task.Booking)
		})
	}

	if d.publisher != nil {
		d.withRetries("analytics event", task, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
			defer cancel()

			msg := kafka.NewMessage().
				WithKey(task.Booking.ID).
				WithValue(task.Booking).
				WithEventType(task.Event).
				WithSource("reservations").
				Build()
			return d.publisher.Publish(ctx, msg)
		})
	}
}

// withRetries runs fn up to MaxRetries times with exponential backoff,
// skipping retries for errors the broker marks non-retryable.
func (d *Dispatcher) withRetries(label string, task Task, fn func() error) {
	backoff := d.cfg.BaseBackoff
	var err error

	for attempt := 1; attempt <= d.cfg.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return
		}

		if !kafka.ShouldRetry(err) {
			d.log.Error("Side effect failed with non-retryable error",
				"side_effect", label,
				"event", task.Event,
				"booking_id", task.Booking.ID,
				"error", err)
			return
		}

		if attempt < d.cfg.MaxRetries {
			d.log.Warn("Side effect failed, retrying",
				"side_effect", label,
				"event", task.Event,
				"booking_id", task.Booking.ID,
				"attempt", attempt,
				"backoff", backoff,
				"error", err)
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	d.log.Error("Side effect failed after retries",
		"side_effect", label,
		"event", task.Event,
		"booking_id", task.Booking.ID,
		"attempts", d.cfg.MaxRetries,
		"error", err)
}
