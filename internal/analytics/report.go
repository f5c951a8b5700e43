package analytics

import (
	"fmt"

	"hostal/pkg/model"
)

// Management alert thresholds, matching the figures the managers already
// watch for.
const (
	lowRevenueThreshold  = 1000.0
	lowBookingsThreshold = 10
	shortLeadTimeDays    = 3.0
)

// BuildInsights phrases the headline numbers for the report email.
func BuildInsights(occupancy model.OccupancyMetrics, customers model.CustomerAnalysis) []string {
	var insights []string

	if occupancy.TotalRevenue > 0 {
		insights = append(insights, fmt.Sprintf(
			"Total revenue for the period: $%.2f with %d bookings",
			occupancy.TotalRevenue, occupancy.TotalBookings))

		if occupancy.MeanBookingValue > 0 {
			insights = append(insights, fmt.Sprintf(
				"Mean revenue per booking: $%.2f", occupancy.MeanBookingValue))
		}
		if occupancy.MeanLeadTimeDays > 0 {
			insights = append(insights, fmt.Sprintf(
				"Mean booking lead time: %.1f days", occupancy.MeanLeadTimeDays))
		}
	}

	if customers.RepeatRatePct > 0 {
		insights = append(insights, fmt.Sprintf(
			"Repeat customer rate: %.1f%%", customers.RepeatRatePct))
	}

	if popular := mostPopularRoomType(occupancy.ByRoomType); popular != "" {
		insights = append(insights, fmt.Sprintf("Most popular room type: %s", popular))
	}

	return insights
}

func mostPopularRoomType(byType map[string]model.RoomTypeMetrics) string {
	var popular string
	var maxBookings int
	for roomType, metrics := range byType {
		if metrics.Bookings > maxBookings ||
			(metrics.Bookings == maxBookings && (popular == "" || roomType < popular)) {
			popular = roomType
			maxBookings = metrics.Bookings
		}
	}
	return popular
}

// BuildAlerts raises the management alerts from the window's figures.
func BuildAlerts(occupancy model.OccupancyMetrics) []model.Alert {
	var alerts []model.Alert

	if occupancy.TotalRevenue < lowRevenueThreshold {
		alerts = append(alerts, model.Alert{
			Kind:            "low_revenue",
			Priority:        "high",
			Message:         fmt.Sprintf("Revenue below target: $%.2f", occupancy.TotalRevenue),
			SuggestedAction: "Review pricing strategy and promotions",
		})
	}

	if occupancy.TotalBookings < lowBookingsThreshold {
		alerts = append(alerts, model.Alert{
			Kind:            "low_occupancy",
			Priority:        "medium",
			Message:         fmt.Sprintf("Only %d bookings in the period", occupancy.TotalBookings),
			SuggestedAction: "Step up digital marketing and promotions",
		})
	}

	if occupancy.TotalBookings > 0 && occupancy.MeanLeadTimeDays < shortLeadTimeDays {
		alerts = append(alerts, model.Alert{
			Kind:            "last_minute_bookings",
			Priority:        "low",
			Message:         fmt.Sprintf("Bookings arrive last minute (mean lead time: %.1f days)", occupancy.MeanLeadTimeDays),
			SuggestedAction: "Encourage early bookings with a discount",
		})
	}

	return alerts
}
