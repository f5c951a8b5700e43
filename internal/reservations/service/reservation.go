package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hostal/internal/reservations/availability"
	"hostal/internal/reservations/dispatch"
	reserrors "hostal/internal/reservations/errors"
	"hostal/internal/reservations/pricing"
	"hostal/internal/reservations/repository"
	"hostal/internal/reservations/validator"
	"hostal/pkg/config"
	apperrors "hostal/pkg/errors"
	"hostal/pkg/model"
	"hostal/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityQuery carries the availability lookup parameters. RoomType and
// GuestCount are optional narrowing filters.
type AvailabilityQuery struct {
	CheckIn    string
	CheckOut   string
	RoomType   string
	GuestCount int
}

type ReservationService interface {
	Create(ctx context.Context, req *model.ReservationRequest) (*model.ReservationConfirmation, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	CheckAvailability(ctx context.Context, query *AvailabilityQuery) ([]*model.AvailableRoom, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
}

// TaskQueue decouples the coordinator from the dispatch worker.
type TaskQueue interface {
	Enqueue(task dispatch.Task) bool
}

type reservationService struct {
	repo         repository.BookingRepository
	roomRepo     repository.RoomRepository
	customerRepo repository.CustomerRepository
	holdRepo     repository.RoomHoldRepository
	validator    *validator.ReservationValidator
	dispatcher   TaskQueue
	pricer       pricing.Calculator
	cfg          *config.Config
}

func NewReservationService(
	repo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	customerRepo repository.CustomerRepository,
	holdRepo repository.RoomHoldRepository,
	validator *validator.ReservationValidator,
	dispatcher TaskQueue,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:         repo,
		roomRepo:     roomRepo,
		customerRepo: customerRepo,
		holdRepo:     holdRepo,
		validator:    validator,
		dispatcher:   dispatcher,
		pricer:       pricing.NewCalculator(cfg.PerGuestNightlyFee, cfg.IncludedGuests),
		cfg:          cfg,
	}
}

// Create accepts a reservation if some unit of the requested type is free for
// every night of the stay. Candidate units are tried in catalog order; each
// try takes an advisory hold and re-verifies the overlap inside a transaction
// so two concurrent requests for the last unit cannot both win.
func (s *reservationService) Create(ctx context.Context, req *model.ReservationRequest) (*model.ReservationConfirmation, error) {
	s.sanitize(req)

	checkIn, checkOut, err := s.validator.ValidateRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	rooms, err := s.roomRepo.FindByType(ctx, req.RoomType)
	if err != nil {
		if errors.Is(err, reserrors.ErrUnknownRoomType) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown room type: %s", req.RoomType))
		}
		return nil, apperrors.Internal("Failed to load room catalog", err)
	}

	candidates := availability.FitGuests(rooms, req.GuestCount)
	if len(candidates) == 0 {
		return nil, apperrors.RoomUnavailable(fmt.Sprintf(
			"No %s room can host %d guests", req.RoomType, req.GuestCount))
	}

	s.upsertCustomer(ctx, req)

	booking, err := s.reserveFirstFreeUnit(ctx, req, candidates, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if ok := s.dispatcher.Enqueue(dispatch.Task{Event: dispatch.EventBookingCreated, Booking: booking}); !ok {
		s.cfg.Log.Warn("Booking side effects not queued", "booking_id", booking.ID)
	}

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"checkin", booking.CheckIn.Format(model.DateLayout),
		"checkout", booking.CheckOut.Format(model.DateLayout),
	)

	return &model.ReservationConfirmation{
		BookingID:  booking.ID,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
	}, nil
}

// reserveFirstFreeUnit walks the candidate units and books the first one with
// no overlapping confirmed stay. Units held by a concurrent request are
// skipped; they only produce a rejection when no other unit is free.
func (s *reservationService) reserveFirstFreeUnit(
	ctx context.Context,
	req *model.ReservationRequest,
	candidates []*model.Room,
	checkIn, checkOut time.Time,
) (*model.Booking, error) {
	contended := false

	for _, room := range candidates {
		holdID, err := s.acquireRoomHold(ctx, room.ID)
		if err != nil {
			if errors.Is(err, reserrors.ErrHoldContended) {
				contended = true
				continue
			}
			return nil, err
		}

		booking, err := s.bookRoom(ctx, req, room, checkIn, checkOut)

		if releaseErr := s.holdRepo.Delete(ctx, holdID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room hold", "hold_id", holdID, "error", releaseErr)
		}

		if err != nil {
			if errors.Is(err, reserrors.ErrNoRoomAvailable) {
				continue
			}
			return nil, err
		}
		return booking, nil
	}

	// A lost hold race reads the same as a fully booked type: the caller
	// retries or picks other dates either way.
	if contended {
		return nil, apperrors.RoomUnavailable(
			"Requested dates are being booked by another request. Please try again.")
	}
	return nil, apperrors.RoomUnavailable(fmt.Sprintf(
		"No %s room is available from %s to %s",
		req.RoomType, checkIn.Format(model.DateLayout), checkOut.Format(model.DateLayout)))
}

// bookRoom re-checks the room's ledger inside a transaction and inserts the
// booking when the range is still free.
func (s *reservationService) bookRoom(
	ctx context.Context,
	req *model.ReservationRequest,
	room *model.Room,
	checkIn, checkOut time.Time,
) (*model.Booking, error) {
	booking := &model.Booking{
		ID:            uuid.New().String(),
		RoomID:        room.ID,
		RoomType:      room.Type,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		GuestCount:    req.GuestCount,
		TotalPrice:    s.pricer.Quote(room.NightlyRate, req.GuestCount, checkIn, checkOut),
		Status:        model.StatusConfirmed,
		ExtraServices: req.ExtraServices,
		Notes:         req.Notes,
	}

	if err := s.validator.ValidateBooking(booking); err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindOverlapping(sessCtx, room.ID, checkIn, checkOut)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if len(existing) > 0 {
			return reserrors.ErrNoRoomAvailable
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// acquireRoomHold takes the advisory lock for one room. A duplicate key
// error means another request holds it.
func (s *reservationService) acquireRoomHold(ctx context.Context, roomID string) (string, error) {
	holdID := fmt.Sprintf("room_hold_%s", roomID)

	hold := &model.RoomHold{
		ID:        holdID,
		ExpiresAt: time.Now().Add(s.cfg.HoldTTL),
	}

	if _, err := s.holdRepo.Create(ctx, hold); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", reserrors.ErrHoldContended
		}
		return "", apperrors.Internal("Failed to acquire room hold", err)
	}
	return holdID, nil
}

// upsertCustomer refreshes the customer profile. Best effort: the booking is
// already committed, so a failure here only logs.
func (s *reservationService) upsertCustomer(ctx context.Context, req *model.ReservationRequest) {
	customer := &model.Customer{
		Email: req.CustomerEmail,
		Name:  req.CustomerName,
		Phone: req.CustomerPhone,
	}
	if err := s.customerRepo.Upsert(ctx, customer); err != nil {
		s.cfg.Log.Warn("Failed to upsert customer profile", "email", req.CustomerEmail, "error", err)
	}
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *reservationService) GetAll(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", errFind)
	}
	return bookings, count, nil
}

// Cancel flips the booking to cancelled. Cancelling an already-cancelled
// booking is a conflict, not a success: the record did not transition.
func (s *reservationService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, reserrors.ErrAlreadyCancelled) {
			return nil, apperrors.Conflict(fmt.Sprintf("Booking %s is already cancelled", id))
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load cancelled booking", err)
	}

	if ok := s.dispatcher.Enqueue(dispatch.Task{Event: dispatch.EventBookingCancelled, Booking: booking}); !ok {
		s.cfg.Log.Warn("Cancellation side effects not queued", "booking_id", booking.ID)
	}

	s.cfg.Log.Info("Booking cancelled", "booking_id", booking.ID, "room_id", booking.RoomID)
	return booking, nil
}

// CheckAvailability lists the units free for every night of the range. It is
// a plain read: the race window against concurrent creates is closed at
// booking time, not here.
func (s *reservationService) CheckAvailability(ctx context.Context, query *AvailabilityQuery) ([]*model.AvailableRoom, error) {
	checkIn, err := time.ParseInLocation(model.DateLayout, query.CheckIn, time.UTC)
	if err != nil {
		return nil, apperrors.InvalidInput("checkin must be a YYYY-MM-DD date")
	}
	checkOut, err := time.ParseInLocation(model.DateLayout, query.CheckOut, time.UTC)
	if err != nil {
		return nil, apperrors.InvalidInput("checkout must be a YYYY-MM-DD date")
	}
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidInput("checkout must be after checkin")
	}

	var rooms []*model.Room
	if query.RoomType != "" {
		rooms, err = s.roomRepo.FindByType(ctx, query.RoomType)
		if err != nil {
			if errors.Is(err, reserrors.ErrUnknownRoomType) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown room type: %s", query.RoomType))
			}
			return nil, apperrors.Internal("Failed to load room catalog", err)
		}
	} else {
		rooms, err = s.roomRepo.FindAll(ctx)
		if err != nil {
			return nil, apperrors.Internal("Failed to load room catalog", err)
		}
	}

	if query.GuestCount > 0 {
		rooms = availability.FitGuests(rooms, query.GuestCount)
	}

	available := make([]*model.AvailableRoom, 0, len(rooms))
	for _, room := range rooms {
		overlapping, err := s.repo.FindOverlapping(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return nil, apperrors.Internal("Failed to check room availability", err)
		}
		if availability.RoomFree(overlapping, checkIn, checkOut) {
			available = append(available, &model.AvailableRoom{
				RoomID:      room.ID,
				Type:        room.Type,
				Capacity:    room.Capacity,
				NightlyRate: room.NightlyRate,
				Amenities:   room.Amenities,
			})
		}
	}
	return available, nil
}

func (s *reservationService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list rooms", err)
	}
	return rooms, nil
}

func (s *reservationService) sanitize(req *model.ReservationRequest) {
	req.CustomerEmail = sanitizer.SanitizeEmail(req.CustomerEmail)
	req.CustomerName = sanitizer.SanitizeName(req.CustomerName)
	req.CustomerPhone = sanitizer.NormalizePhone(req.CustomerPhone)
	req.RoomType = sanitizer.TrimAndNormalize(req.RoomType)
	req.CheckIn = sanitizer.TrimAndNormalize(req.CheckIn)
	req.CheckOut = sanitizer.TrimAndNormalize(req.CheckOut)
	req.ExtraServices = sanitizer.SanitizeServiceTags(req.ExtraServices)
	req.Notes = sanitizer.SanitizeNotes(req.Notes)
}
