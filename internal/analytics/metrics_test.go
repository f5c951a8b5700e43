package analytics

import (
	"testing"
	"time"

	"hostal/pkg/model"
)

func day(value string) time.Time {
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(email, roomType, checkIn string, nights int, price float64, leadDays int) *model.Booking {
	in := day(checkIn)
	return &model.Booking{
		ID:            "b-" + checkIn + "-" + email,
		RoomID:        roomType + "-1",
		RoomType:      roomType,
		CustomerEmail: email,
		CheckIn:       in,
		CheckOut:      in.AddDate(0, 0, nights),
		GuestCount:    2,
		TotalPrice:    price,
		Status:        model.StatusConfirmed,
		CreatedAt:     in.AddDate(0, 0, -leadDays),
	}
}

func TestBuildDatasetSkipsZeroNightStays(t *testing.T) {
	broken := stay("a@example.com", "dorm", "2026-01-05", 2, 50, 10)
	broken.CheckOut = broken.CheckIn

	records := BuildDataset([]*model.Booking{
		broken,
		stay("b@example.com", "dorm", "2026-01-06", 1, 25, 2),
	})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Booking.CustomerEmail != "b@example.com" {
		t.Errorf("kept wrong record: %s", records[0].Booking.CustomerEmail)
	}
}

func TestComputeOccupancy(t *testing.T) {
	records := BuildDataset([]*model.Booking{
		stay("a@example.com", "dorm", "2026-01-05", 2, 50, 10),
		stay("a@example.com", "dorm", "2026-01-12", 3, 75, 5),
		stay("b@example.com", "double", "2026-02-03", 1, 65, 3),
	})

	metrics := ComputeOccupancy(records)

	if metrics.TotalBookings != 3 {
		t.Errorf("expected 3 bookings, got %d", metrics.TotalBookings)
	}
	if metrics.TotalRevenue != 190 {
		t.Errorf("expected revenue 190, got %v", metrics.TotalRevenue)
	}
	if metrics.TotalNights != 6 {
		t.Errorf("expected 6 nights, got %d", metrics.TotalNights)
	}
	if metrics.MeanBookingValue != 63.33 {
		t.Errorf("expected mean booking value 63.33, got %v", metrics.MeanBookingValue)
	}
	if metrics.MeanLeadTimeDays != 6 {
		t.Errorf("expected mean lead time 6, got %v", metrics.MeanLeadTimeDays)
	}

	dorm := metrics.ByRoomType["dorm"]
	if dorm.Bookings != 2 || dorm.Revenue != 125 || dorm.Nights != 5 {
		t.Errorf("unexpected dorm metrics: %+v", dorm)
	}
	double := metrics.ByRoomType["double"]
	if double.Bookings != 1 || double.Revenue != 65 || double.Nights != 1 {
		t.Errorf("unexpected double metrics: %+v", double)
	}

	if metrics.MonthlyBookings["2026-01"] != 2 || metrics.MonthlyBookings["2026-02"] != 1 {
		t.Errorf("unexpected monthly distribution: %v", metrics.MonthlyBookings)
	}
	// 2026-01-05 and 2026-01-12 are Mondays, 2026-02-03 is a Tuesday.
	if metrics.WeekdayBookings["Monday"] != 2 || metrics.WeekdayBookings["Tuesday"] != 1 {
		t.Errorf("unexpected weekday distribution: %v", metrics.WeekdayBookings)
	}
}

func TestComputeOccupancyEmptyWindow(t *testing.T) {
	metrics := ComputeOccupancy(nil)

	if metrics.TotalBookings != 0 || metrics.TotalRevenue != 0 {
		t.Errorf("expected zero metrics, got %+v", metrics)
	}
	if metrics.ByRoomType == nil || metrics.MonthlyBookings == nil {
		t.Error("expected initialized maps on empty window")
	}
}
