package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hostal/pkg/logger"
	"hostal/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate  *validator.Validate
	logger    *logger.Logger
	maxGuests int
}

func NewReservationValidator(log *logger.Logger, maxGuests int) *ReservationValidator {
	v := validator.New()

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate:  v,
		logger:    log,
		maxGuests: maxGuests,
	}
}

// ValidateRequest checks the inbound payload and parses its dates. The
// returned times are UTC midnights ready for the ledger.
func (v *ReservationValidator) ValidateRequest(req *model.ReservationRequest) (checkIn, checkOut time.Time, err error) {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return time.Time{}, time.Time{}, v.translateValidationErrors(validationErrs)
		}
		return time.Time{}, time.Time{}, err
	}

	checkIn, err = time.ParseInLocation(model.DateLayout, req.CheckIn, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{Field: "CheckIn", Message: "checkin must be a YYYY-MM-DD date"},
		}
	}

	checkOut, err = time.ParseInLocation(model.DateLayout, req.CheckOut, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{Field: "CheckOut", Message: "checkout must be a YYYY-MM-DD date"},
		}
	}

	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{Field: "CheckOut", Message: "checkout must be after checkin"},
		}
	}

	if req.GuestCount > v.maxGuests {
		return time.Time{}, time.Time{}, ValidationErrors{
			ValidationError{Field: "GuestCount", Message: fmt.Sprintf("guest_count must be at most %d", v.maxGuests)},
		}
	}

	return checkIn, checkOut, nil
}

// ValidateBooking checks the assembled ledger record before it is written.
func (v *ReservationValidator) ValidateBooking(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
