package model

import (
	"time"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// DateLayout is the wire format for check-in/check-out dates. Stays are
// whole-night granularity; times of day never matter.
const DateLayout = "2006-01-02"

// Booking is a ledger record. CheckOut is exclusive: [CheckIn, CheckOut)
// covers the occupied nights, so back-to-back stays share a boundary date
// without conflicting. Bookings are never deleted, only flipped to cancelled.
type Booking struct {
	ID            string    `json:"booking_id" bson:"_id" validate:"required,uuid4"`
	RoomID        string    `json:"room_id" bson:"room_id" validate:"required"`
	RoomType      string    `json:"room_type" bson:"room_type" validate:"required"`
	CustomerEmail string    `json:"customer_email" bson:"customer_email" validate:"required,email"`
	CustomerName  string    `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	CheckIn       time.Time `json:"checkin" bson:"checkin" validate:"required"`
	CheckOut      time.Time `json:"checkout" bson:"checkout" validate:"required,gtfield=CheckIn"`
	GuestCount    int       `json:"guest_count" bson:"guest_count" validate:"required,min=1"`
	TotalPrice    float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	ExtraServices []string  `json:"extra_services,omitempty" bson:"extra_services,omitempty"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=1000"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Nights returns the whole-night count of the stay.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// ReservationRequest is the createReservation payload. Dates arrive as
// YYYY-MM-DD strings and are parsed by the coordinator during validation.
type ReservationRequest struct {
	CustomerEmail string   `json:"customer_email" validate:"required,email"`
	CustomerName  string   `json:"customer_name,omitempty" validate:"omitempty,min=1,max=100"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	CheckIn       string   `json:"checkin" validate:"required"`
	CheckOut      string   `json:"checkout" validate:"required"`
	RoomType      string   `json:"room_type" validate:"required,min=2,max=50"`
	GuestCount    int      `json:"guest_count" validate:"required,min=1"`
	ExtraServices []string `json:"extra_services,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Notes         string   `json:"notes,omitempty" validate:"max=1000"`
}

// ReservationConfirmation is returned to the caller on acceptance so the
// client can reconcile state.
type ReservationConfirmation struct {
	BookingID  string  `json:"booking_id"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

// BookingFilter narrows listReservations queries. Zero values mean
// "no constraint".
type BookingFilter struct {
	CustomerEmail string
	RoomType      string
	Status        string
	From          *time.Time
	To            *time.Time
}
