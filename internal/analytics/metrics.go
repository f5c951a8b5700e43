package analytics

import (
	"math"

	"hostal/pkg/model"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeOccupancy aggregates the window's stays into the occupancy block of
// the report.
func ComputeOccupancy(records []StayRecord) model.OccupancyMetrics {
	metrics := model.OccupancyMetrics{
		ByRoomType:      make(map[string]model.RoomTypeMetrics),
		MonthlyBookings: make(map[string]int),
		WeekdayBookings: make(map[string]int),
	}
	if len(records) == 0 {
		return metrics
	}

	var totalRevenue, totalLeadTime float64
	for _, rec := range records {
		metrics.TotalBookings++
		totalRevenue += rec.Booking.TotalPrice
		metrics.TotalNights += rec.Nights
		totalLeadTime += rec.LeadTimeDays

		byType := metrics.ByRoomType[rec.Booking.RoomType]
		byType.Bookings++
		byType.Revenue = round2(byType.Revenue + rec.Booking.TotalPrice)
		byType.Nights += rec.Nights
		metrics.ByRoomType[rec.Booking.RoomType] = byType

		metrics.MonthlyBookings[rec.Month]++
		metrics.WeekdayBookings[rec.Weekday.String()]++
	}

	metrics.TotalRevenue = round2(totalRevenue)
	metrics.MeanBookingValue = round2(totalRevenue / float64(metrics.TotalBookings))
	metrics.MeanLeadTimeDays = round2(totalLeadTime / float64(metrics.TotalBookings))
	return metrics
}
