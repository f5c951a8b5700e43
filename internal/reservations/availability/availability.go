// Package availability holds the pure date-range logic behind room lookups.
// Stays are half-open intervals: the checkout date is free for the next
// guest's check-in.
package availability

import (
	"time"

	"hostal/pkg/model"
)

// Overlaps reports whether [start1, end1) and [start2, end2) share at least
// one night.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// RoomFree reports whether none of the room's bookings occupy a night of
// [checkIn, checkOut). Cancelled bookings never block a room.
func RoomFree(bookings []*model.Booking, checkIn, checkOut time.Time) bool {
	for _, b := range bookings {
		if b.Status != model.StatusConfirmed {
			continue
		}
		if Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return false
		}
	}
	return true
}

// FitGuests returns the rooms whose capacity can host guestCount, preserving
// input order.
func FitGuests(rooms []*model.Room, guestCount int) []*model.Room {
	fit := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Capacity >= guestCount {
			fit = append(fit, room)
		}
	}
	return fit
}
