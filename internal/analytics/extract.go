// Package analytics implements the batch reporting pipeline: extract the
// booking window, compute occupancy, customer, forecast and sentiment
// figures, persist the consolidated report and notify the operators.
package analytics

import (
	"time"

	"hostal/pkg/model"
)

// StayRecord is a booking enriched with the derived fields the aggregations
// work from.
type StayRecord struct {
	Booking       *model.Booking
	Nights        int
	ValuePerNight float64
	Month         string
	Weekday       time.Weekday
	LeadTimeDays  float64
}

// BuildDataset derives per-stay fields from the raw ledger slice. The window
// query already bounded check-in; cancelled stays are kept so the report
// reflects everything sold in the period.
func BuildDataset(bookings []*model.Booking) []StayRecord {
	records := make([]StayRecord, 0, len(bookings))
	for _, b := range bookings {
		nights := b.Nights()
		if nights <= 0 {
			continue
		}
		records = append(records, StayRecord{
			Booking:       b,
			Nights:        nights,
			ValuePerNight: b.TotalPrice / float64(nights),
			Month:         b.CheckIn.Format("2006-01"),
			Weekday:       b.CheckIn.Weekday(),
			LeadTimeDays:  b.CheckIn.Sub(b.CreatedAt).Hours() / 24,
		})
	}
	return records
}
