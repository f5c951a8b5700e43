package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrAlreadyCancelled means the cancel matched an existing booking whose
	// status was not confirmed.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrHoldContended means another request holds the advisory lock for the
	// same room unit.
	ErrHoldContended = errors.New("room hold is taken by a concurrent request")

	// ErrNoRoomAvailable means every unit of the requested type is booked for
	// some night of the requested range.
	ErrNoRoomAvailable = errors.New("no room of the requested type is available")

	ErrUnknownRoomType = errors.New("unknown room type")
)
