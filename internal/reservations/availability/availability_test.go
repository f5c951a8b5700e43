package availability

import (
	"testing"
	"time"

	"hostal/pkg/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{
			name:   "partial overlap at range end",
			aStart: date(2024, 1, 10), aEnd: date(2024, 1, 15),
			bStart: date(2024, 1, 14), bEnd: date(2024, 1, 16),
			expected: true,
		},
		{
			name:   "back to back stays share the boundary date",
			aStart: date(2024, 1, 10), aEnd: date(2024, 1, 15),
			bStart: date(2024, 1, 15), bEnd: date(2024, 1, 18),
			expected: false,
		},
		{
			name:   "one range contains the other",
			aStart: date(2024, 1, 10), aEnd: date(2024, 1, 20),
			bStart: date(2024, 1, 12), bEnd: date(2024, 1, 14),
			expected: true,
		},
		{
			name:   "identical ranges",
			aStart: date(2024, 1, 10), aEnd: date(2024, 1, 15),
			bStart: date(2024, 1, 10), bEnd: date(2024, 1, 15),
			expected: true,
		},
		{
			name:   "disjoint ranges",
			aStart: date(2024, 1, 10), aEnd: date(2024, 1, 12),
			bStart: date(2024, 1, 20), bEnd: date(2024, 1, 22),
			expected: false,
		},
		{
			name:   "single night inside a longer stay",
			aStart: date(2024, 1, 12), aEnd: date(2024, 1, 13),
			bStart: date(2024, 1, 10), bEnd: date(2024, 1, 15),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRoomFree(t *testing.T) {
	bookings := []*model.Booking{
		{
			Status:  model.StatusConfirmed,
			CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 15),
		},
		{
			Status:  model.StatusCancelled,
			CheckIn: date(2024, 1, 20), CheckOut: date(2024, 1, 25),
		},
	}

	if RoomFree(bookings, date(2024, 1, 14), date(2024, 1, 16)) {
		t.Error("expected room busy when range overlaps a confirmed booking")
	}
	if !RoomFree(bookings, date(2024, 1, 15), date(2024, 1, 18)) {
		t.Error("expected room free when check-in lands on previous checkout")
	}
	if !RoomFree(bookings, date(2024, 1, 20), date(2024, 1, 25)) {
		t.Error("expected cancelled booking to not block the room")
	}
	if !RoomFree(nil, date(2024, 1, 1), date(2024, 1, 2)) {
		t.Error("expected empty ledger to leave the room free")
	}
}

func TestFitGuests(t *testing.T) {
	rooms := []*model.Room{
		{ID: "dorm-1", Capacity: 8},
		{ID: "double-1", Capacity: 2},
		{ID: "family-1", Capacity: 5},
	}

	fit := FitGuests(rooms, 4)
	if len(fit) != 2 {
		t.Fatalf("expected 2 rooms for 4 guests, got %d", len(fit))
	}
	if fit[0].ID != "dorm-1" || fit[1].ID != "family-1" {
		t.Errorf("expected input order preserved, got %s, %s", fit[0].ID, fit[1].ID)
	}

	if got := FitGuests(rooms, 10); len(got) != 0 {
		t.Errorf("expected no rooms for 10 guests, got %d", len(got))
	}
}
