// Package pricing computes stay totals from the room's nightly rate.
package pricing

import (
	"math"
	"time"
)

// Calculator prices a stay. Guests beyond IncludedGuests pay
// PerGuestNightlyFee extra per night.
type Calculator struct {
	PerGuestNightlyFee float64
	IncludedGuests     int
}

func NewCalculator(perGuestNightlyFee float64, includedGuests int) Calculator {
	return Calculator{
		PerGuestNightlyFee: perGuestNightlyFee,
		IncludedGuests:     includedGuests,
	}
}

// Nights counts the whole nights between two dates. checkOut is exclusive.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Total prices nights at nightlyRate plus the extra-guest surcharge, rounded
// to cents.
func (c Calculator) Total(nightlyRate float64, guestCount, nights int) float64 {
	extraGuests := guestCount - c.IncludedGuests
	if extraGuests < 0 {
		extraGuests = 0
	}
	perNight := nightlyRate + float64(extraGuests)*c.PerGuestNightlyFee
	return math.Round(perNight*float64(nights)*100) / 100
}

// Quote prices a stay over [checkIn, checkOut).
func (c Calculator) Quote(nightlyRate float64, guestCount int, checkIn, checkOut time.Time) float64 {
	return c.Total(nightlyRate, guestCount, Nights(checkIn, checkOut))
}
