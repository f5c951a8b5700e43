package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"hostal/internal/reservations/dispatch"
	reserrors "hostal/internal/reservations/errors"
	"hostal/internal/reservations/repository"
	"hostal/internal/reservations/validator"
	"hostal/pkg/config"
	mongotx "hostal/pkg/db/mongo"
	apperrors "hostal/pkg/errors"
	"hostal/pkg/logger"
	"hostal/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// memBookingRepository keeps the ledger in a slice. ExecuteTransaction holds
// a mutex so the overlap check and insert run atomically, mirroring what the
// Mongo transaction guarantees.
type memBookingRepository struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	bookings map[string]*model.Booking
}

func newMemBookingRepository() *memBookingRepository {
	return &memBookingRepository{bookings: make(map[string]*model.Booking)}
}

func (r *memBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.CreatedAt = time.Now().UTC()
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *memBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrNotFound, id)
	}
	clone := *booking
	return &clone, nil
}

func (r *memBookingRepository) FindAll(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.bookings {
		if filter != nil && filter.CustomerEmail != "" && b.CustomerEmail != filter.CustomerEmail {
			continue
		}
		if filter != nil && filter.Status != "" && b.Status != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memBookingRepository) Count(ctx context.Context, filter *model.BookingFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter, 0, 0)
	return int64(len(all)), nil
}

func (r *memBookingRepository) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.bookings {
		if b.RoomID != roomID || b.Status != model.StatusConfirmed {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memBookingRepository) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("%w: %s", reserrors.ErrNotFound, id)
	}
	if booking.Status != model.StatusConfirmed {
		return fmt.Errorf("%w: %s", reserrors.ErrAlreadyCancelled, id)
	}
	booking.Status = model.StatusCancelled
	return nil
}

func (r *memBookingRepository) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(nil)
}

type memRoomRepository struct {
	rooms []*model.Room
}

func (r *memRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	return r.rooms, nil
}

func (r *memRoomRepository) FindByType(ctx context.Context, roomType string) ([]*model.Room, error) {
	var out []*model.Room
	for _, room := range r.rooms {
		if room.Type == roomType {
			out = append(out, room)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrUnknownRoomType, roomType)
	}
	return out, nil
}

func (r *memRoomRepository) Seed(ctx context.Context, rooms []*model.Room) error { return nil }
func (r *memRoomRepository) EnsureIndexes(ctx context.Context) error             { return nil }

type memCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*model.Customer
}

func newMemCustomerRepository() *memCustomerRepository {
	return &memCustomerRepository{customers: make(map[string]*model.Customer)}
}

func (r *memCustomerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.Email] = customer
	return nil
}

// memHoldRepository mimics the unique _id constraint: a second Create for a
// held ID fails with a duplicate key write exception.
type memHoldRepository struct {
	mu    sync.Mutex
	holds map[string]bool
}

func newMemHoldRepository() *memHoldRepository {
	return &memHoldRepository{holds: make(map[string]bool)}
}

func (r *memHoldRepository) Create(ctx context.Context, hold *model.RoomHold) (*model.RoomHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.holds[hold.ID] {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	r.holds[hold.ID] = true
	return hold, nil
}

func (r *memHoldRepository) Delete(ctx context.Context, holdID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.holds, holdID)
	return nil
}

func (r *memHoldRepository) EnsureIndexes(ctx context.Context) error { return nil }

type memTaskQueue struct {
	mu    sync.Mutex
	tasks []dispatch.Task
}

func (q *memTaskQueue) Enqueue(task dispatch.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return true
}

type serviceFixture struct {
	svc       ReservationService
	bookings  *memBookingRepository
	rooms     *memRoomRepository
	customers *memCustomerRepository
	holds     *memHoldRepository
	queue     *memTaskQueue
}

func newFixture(rooms []*model.Room) *serviceFixture {
	log := logger.New(logger.Config{Output: io.Discard})
	cfg := &config.Config{
		Log:                log,
		PerGuestNightlyFee: 15,
		IncludedGuests:     2,
		MaxGuests:          8,
		HoldTTL:            10 * time.Second,
	}

	f := &serviceFixture{
		bookings:  newMemBookingRepository(),
		rooms:     &memRoomRepository{rooms: rooms},
		customers: newMemCustomerRepository(),
		holds:     newMemHoldRepository(),
		queue:     &memTaskQueue{},
	}
	f.svc = NewReservationService(
		f.bookings,
		f.rooms,
		f.customers,
		f.holds,
		validator.NewReservationValidator(log, cfg.MaxGuests),
		f.queue,
		cfg,
	)
	return f
}

var _ repository.BookingRepository = (*memBookingRepository)(nil)
var _ repository.RoomRepository = (*memRoomRepository)(nil)
var _ repository.CustomerRepository = (*memCustomerRepository)(nil)
var _ repository.RoomHoldRepository = (*memHoldRepository)(nil)

func singleDouble() []*model.Room {
	return []*model.Room{
		{ID: "double-1", Type: model.RoomTypePrivateDouble, Capacity: 3, NightlyRate: 65},
	}
}

func request() *model.ReservationRequest {
	return &model.ReservationRequest{
		CustomerEmail: "guest@example.com",
		CustomerName:  "Ana Torres",
		CheckIn:       "2024-03-10",
		CheckOut:      "2024-03-13",
		RoomType:      model.RoomTypePrivateDouble,
		GuestCount:    2,
	}
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(singleDouble())

	conf, err := f.svc.Create(context.Background(), request())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if conf.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed status, got %s", conf.Status)
	}
	if conf.TotalPrice != 195 {
		t.Errorf("expected total 195 (65 x 3 nights), got %v", conf.TotalPrice)
	}

	booking, err := f.bookings.FindByID(context.Background(), conf.BookingID)
	if err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
	if booking.RoomID != "double-1" {
		t.Errorf("expected room double-1 assigned, got %s", booking.RoomID)
	}

	if _, ok := f.customers.customers["guest@example.com"]; !ok {
		t.Error("expected customer profile upserted")
	}

	if len(f.queue.tasks) != 1 || f.queue.tasks[0].Event != dispatch.EventBookingCreated {
		t.Errorf("expected one created task queued, got %v", f.queue.tasks)
	}

	if len(f.holds.holds) != 0 {
		t.Errorf("expected hold released, still held: %v", f.holds.holds)
	}
}

func TestCreateReservationExtraGuestSurcharge(t *testing.T) {
	f := newFixture(singleDouble())

	req := request()
	req.GuestCount = 3

	conf, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	// (65 + 15) x 3 nights
	if conf.TotalPrice != 240 {
		t.Errorf("expected total 240, got %v", conf.TotalPrice)
	}
}

func TestCreateReservationValidationFailure(t *testing.T) {
	f := newFixture(singleDouble())

	req := request()
	req.CheckOut = "2024-03-10"

	_, err := f.svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if count, _ := f.bookings.Count(context.Background(), nil); count != 0 {
		t.Error("expected no ledger write on validation failure")
	}
	if len(f.queue.tasks) != 0 {
		t.Error("expected no task queued on validation failure")
	}
}

func TestCreateReservationUnknownRoomType(t *testing.T) {
	f := newFixture(singleDouble())

	req := request()
	req.RoomType = "penthouse"

	_, err := f.svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestCreateReservationCapacityExceeded(t *testing.T) {
	f := newFixture(singleDouble())

	req := request()
	req.GuestCount = 5

	_, err := f.svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeRoomUnavailable) {
		t.Fatalf("expected room unavailable error, got %v", err)
	}
}

func TestCreateReservationRoomTaken(t *testing.T) {
	f := newFixture(singleDouble())

	if _, err := f.svc.Create(context.Background(), request()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := request()
	req.CustomerEmail = "other@example.com"
	req.CheckIn = "2024-03-12"
	req.CheckOut = "2024-03-14"

	_, err := f.svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeRoomUnavailable) {
		t.Fatalf("expected room unavailable for overlapping stay, got %v", err)
	}
}

// A hold taken by another request reads as the room being unavailable, the
// same as losing the transactional re-check.
func TestCreateReservationHoldContended(t *testing.T) {
	f := newFixture(singleDouble())

	if _, err := f.holds.Create(context.Background(), &model.RoomHold{
		ID:        "room_hold_double-1",
		ExpiresAt: time.Now().Add(10 * time.Second),
	}); err != nil {
		t.Fatalf("failed to seed hold: %v", err)
	}

	_, err := f.svc.Create(context.Background(), request())
	if !apperrors.IsCode(err, apperrors.CodeRoomUnavailable) {
		t.Fatalf("expected room unavailable for contended hold, got %v", err)
	}

	count, _ := f.bookings.Count(context.Background(), &model.BookingFilter{})
	if count != 0 {
		t.Errorf("expected no booking while the hold is taken, got %d", count)
	}
}

// The profile upsert precedes the ledger write, so a rejected booking still
// refreshes the customer record.
func TestCreateReservationUpsertsCustomerBeforePersist(t *testing.T) {
	f := newFixture(singleDouble())

	if _, err := f.svc.Create(context.Background(), request()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := request()
	req.CustomerEmail = "other@example.com"
	_, err := f.svc.Create(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeRoomUnavailable) {
		t.Fatalf("expected room unavailable for overlapping stay, got %v", err)
	}

	if _, ok := f.customers.customers["other@example.com"]; !ok {
		t.Error("expected customer profile upserted despite the rejection")
	}
}

func TestCreateReservationBackToBackStays(t *testing.T) {
	f := newFixture(singleDouble())

	if _, err := f.svc.Create(context.Background(), request()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := request()
	req.CustomerEmail = "other@example.com"
	req.CheckIn = "2024-03-13"
	req.CheckOut = "2024-03-15"

	if _, err := f.svc.Create(context.Background(), req); err != nil {
		t.Fatalf("expected back-to-back stay to succeed, got %v", err)
	}
}

func TestCreateReservationFallsToSecondUnit(t *testing.T) {
	rooms := []*model.Room{
		{ID: "double-1", Type: model.RoomTypePrivateDouble, Capacity: 2, NightlyRate: 65},
		{ID: "double-2", Type: model.RoomTypePrivateDouble, Capacity: 2, NightlyRate: 65},
	}
	f := newFixture(rooms)

	if _, err := f.svc.Create(context.Background(), request()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := request()
	req.CustomerEmail = "other@example.com"
	conf, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	booking, _ := f.bookings.FindByID(context.Background(), conf.BookingID)
	if booking.RoomID != "double-2" {
		t.Errorf("expected second unit assigned, got %s", booking.RoomID)
	}
}

// Two concurrent requests race for the last free unit. The advisory hold plus
// the transactional re-check must let exactly one through.
func TestCreateReservationConcurrentLastUnit(t *testing.T) {
	const attempts = 20

	for i := 0; i < attempts; i++ {
		f := newFixture(singleDouble())

		var wg sync.WaitGroup
		results := make([]error, 2)
		wg.Add(2)
		for j := 0; j < 2; j++ {
			go func(j int) {
				defer wg.Done()
				req := request()
				req.CustomerEmail = fmt.Sprintf("guest%d@example.com", j)
				_, results[j] = f.svc.Create(context.Background(), req)
			}(j)
		}
		wg.Wait()

		var successes, rejections int
		for _, err := range results {
			switch {
			case err == nil:
				successes++
			case apperrors.IsCode(err, apperrors.CodeRoomUnavailable):
				rejections++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if successes != 1 || rejections != 1 {
			t.Fatalf("expected exactly one winner, got %d successes and %d rejections", successes, rejections)
		}

		count, _ := f.bookings.Count(context.Background(), &model.BookingFilter{Status: model.StatusConfirmed})
		if count != 1 {
			t.Fatalf("expected a single confirmed booking, got %d", count)
		}
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(singleDouble())

	conf, err := f.svc.Create(context.Background(), request())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	booking, err := f.svc.Cancel(context.Background(), conf.BookingID)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("expected cancelled status, got %s", booking.Status)
	}

	// second cancel is a conflict, the record did not transition
	_, err = f.svc.Cancel(context.Background(), conf.BookingID)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict on repeated cancel, got %v", err)
	}

	var cancelEvents int
	for _, task := range f.queue.tasks {
		if task.Event == dispatch.EventBookingCancelled {
			cancelEvents++
		}
	}
	if cancelEvents != 1 {
		t.Errorf("expected exactly one cancellation event, got %d", cancelEvents)
	}
}

func TestCancelFreesTheRoom(t *testing.T) {
	f := newFixture(singleDouble())

	conf, err := f.svc.Create(context.Background(), request())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), conf.BookingID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	req := request()
	req.CustomerEmail = "other@example.com"
	if _, err := f.svc.Create(context.Background(), req); err != nil {
		t.Fatalf("expected cancelled stay to free the room, got %v", err)
	}
}

func TestCancelNotFound(t *testing.T) {
	f := newFixture(singleDouble())

	_, err := f.svc.Cancel(context.Background(), "7c9e6679-7425-40de-944b-e07fc1f90ae7")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	rooms := []*model.Room{
		{ID: "double-1", Type: model.RoomTypePrivateDouble, Capacity: 2, NightlyRate: 65},
		{ID: "dorm-1", Type: model.RoomTypeDormitory, Capacity: 8, NightlyRate: 25},
	}
	f := newFixture(rooms)

	if _, err := f.svc.Create(context.Background(), request()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	available, err := f.svc.CheckAvailability(context.Background(), &AvailabilityQuery{
		CheckIn:  "2024-03-11",
		CheckOut: "2024-03-12",
	})
	if err != nil {
		t.Fatalf("CheckAvailability returned error: %v", err)
	}
	if len(available) != 1 || available[0].RoomID != "dorm-1" {
		t.Fatalf("expected only dorm-1 free, got %v", available)
	}

	// boundary date: checkout day is free for the next guest
	available, err = f.svc.CheckAvailability(context.Background(), &AvailabilityQuery{
		CheckIn:  "2024-03-13",
		CheckOut: "2024-03-15",
	})
	if err != nil {
		t.Fatalf("CheckAvailability returned error: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected both rooms free from checkout day, got %d", len(available))
	}
}

func TestCheckAvailabilityRejectsBadRange(t *testing.T) {
	f := newFixture(singleDouble())

	_, err := f.svc.CheckAvailability(context.Background(), &AvailabilityQuery{
		CheckIn:  "2024-03-13",
		CheckOut: "2024-03-10",
	})
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetAll(t *testing.T) {
	f := newFixture(singleDouble())

	if _, err := f.svc.Create(context.Background(), request()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	bookings, count, err := f.svc.GetAll(context.Background(), &model.BookingFilter{CustomerEmail: "guest@example.com"}, 100, 0)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if count != 1 || len(bookings) != 1 {
		t.Fatalf("expected one booking, got count=%d len=%d", count, len(bookings))
	}

	_, count, err = f.svc.GetAll(context.Background(), &model.BookingFilter{CustomerEmail: "nobody@example.com"}, 100, 0)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected zero bookings for unknown customer, got %d", count)
	}
}
