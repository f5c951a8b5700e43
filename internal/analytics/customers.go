package analytics

import (
	"sort"

	"hostal/pkg/model"
)

// Spend tiers, upper bound inclusive. Everything above the last bound is
// Platinum.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

const topCustomerCount = 10

func spendTier(revenue float64) string {
	switch {
	case revenue <= 100:
		return TierBronze
	case revenue <= 300:
		return TierSilver
	case revenue <= 1000:
		return TierGold
	default:
		return TierPlatinum
	}
}

// AnalyzeCustomers profiles spend and loyalty across the window.
func AnalyzeCustomers(records []StayRecord) model.CustomerAnalysis {
	analysis := model.CustomerAnalysis{
		Tiers: make(map[string]int),
	}
	if len(records) == 0 {
		return analysis
	}

	byEmail := make(map[string]*model.CustomerSpend)
	for _, rec := range records {
		spend, ok := byEmail[rec.Booking.CustomerEmail]
		if !ok {
			spend = &model.CustomerSpend{Email: rec.Booking.CustomerEmail}
			byEmail[rec.Booking.CustomerEmail] = spend
		}
		spend.Revenue = round2(spend.Revenue + rec.Booking.TotalPrice)
		spend.Bookings++
		spend.Nights += rec.Nights
	}

	customers := make([]model.CustomerSpend, 0, len(byEmail))
	var totalRevenue float64
	for _, spend := range byEmail {
		customers = append(customers, *spend)
		totalRevenue += spend.Revenue
		analysis.Tiers[spendTier(spend.Revenue)]++
		if spend.Bookings > 1 {
			analysis.RepeatCustomers++
		}
	}

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].Revenue != customers[j].Revenue {
			return customers[i].Revenue > customers[j].Revenue
		}
		return customers[i].Email < customers[j].Email
	})

	top := customers
	if len(top) > topCustomerCount {
		top = top[:topCustomerCount]
	}

	analysis.UniqueCustomers = len(customers)
	analysis.TopCustomers = top
	analysis.RepeatRatePct = round2(float64(analysis.RepeatCustomers) / float64(len(customers)) * 100)
	analysis.MeanCustomerValue = round2(totalRevenue / float64(len(customers)))
	return analysis
}
