package analytics

import (
	"testing"

	"hostal/pkg/model"
)

func TestSpendTierBoundaries(t *testing.T) {
	tests := []struct {
		revenue float64
		want    string
	}{
		{50, TierBronze},
		{100, TierBronze},
		{100.01, TierSilver},
		{300, TierSilver},
		{300.01, TierGold},
		{1000, TierGold},
		{1000.01, TierPlatinum},
		{5000, TierPlatinum},
	}

	for _, tc := range tests {
		if got := spendTier(tc.revenue); got != tc.want {
			t.Errorf("spendTier(%v) = %s, want %s", tc.revenue, got, tc.want)
		}
	}
}

func TestAnalyzeCustomers(t *testing.T) {
	records := BuildDataset([]*model.Booking{
		stay("bronze@example.com", "dorm", "2026-01-05", 2, 100, 5),
		stay("silver@example.com", "double", "2026-01-06", 3, 300, 5),
		stay("gold@example.com", "family", "2026-01-07", 5, 1000, 5),
		stay("platinum@example.com", "family", "2026-01-08", 7, 1500, 5),
		stay("repeat@example.com", "dorm", "2026-01-09", 2, 80, 5),
		stay("repeat@example.com", "dorm", "2026-01-20", 3, 120, 5),
	})

	analysis := AnalyzeCustomers(records)

	if analysis.UniqueCustomers != 5 {
		t.Errorf("expected 5 unique customers, got %d", analysis.UniqueCustomers)
	}
	if analysis.RepeatCustomers != 1 {
		t.Errorf("expected 1 repeat customer, got %d", analysis.RepeatCustomers)
	}
	if analysis.RepeatRatePct != 20 {
		t.Errorf("expected repeat rate 20%%, got %v", analysis.RepeatRatePct)
	}
	if analysis.MeanCustomerValue != 620 {
		t.Errorf("expected mean customer value 620, got %v", analysis.MeanCustomerValue)
	}

	wantTiers := map[string]int{TierBronze: 1, TierSilver: 2, TierGold: 1, TierPlatinum: 1}
	for tier, count := range wantTiers {
		if analysis.Tiers[tier] != count {
			t.Errorf("expected %d customers in %s, got %d", count, tier, analysis.Tiers[tier])
		}
	}

	wantOrder := []string{
		"platinum@example.com",
		"gold@example.com",
		"silver@example.com",
		"repeat@example.com",
		"bronze@example.com",
	}
	if len(analysis.TopCustomers) != len(wantOrder) {
		t.Fatalf("expected %d top customers, got %d", len(wantOrder), len(analysis.TopCustomers))
	}
	for i, email := range wantOrder {
		if analysis.TopCustomers[i].Email != email {
			t.Errorf("top[%d] = %s, want %s", i, analysis.TopCustomers[i].Email, email)
		}
	}

	if analysis.TopCustomers[3].Revenue != 200 || analysis.TopCustomers[3].Bookings != 2 {
		t.Errorf("repeat customer not aggregated: %+v", analysis.TopCustomers[3])
	}
}

func TestAnalyzeCustomersEmptyWindow(t *testing.T) {
	analysis := AnalyzeCustomers(nil)

	if analysis.UniqueCustomers != 0 || analysis.RepeatRatePct != 0 {
		t.Errorf("expected zero analysis, got %+v", analysis)
	}
}
