package model

import "time"

// OccupancyMetrics aggregates the ledger over a report window.
type OccupancyMetrics struct {
	TotalBookings    int                        `json:"total_bookings" bson:"total_bookings"`
	TotalRevenue     float64                    `json:"total_revenue" bson:"total_revenue"`
	MeanBookingValue float64                    `json:"mean_booking_value" bson:"mean_booking_value"`
	TotalNights      int                        `json:"total_nights" bson:"total_nights"`
	ByRoomType       map[string]RoomTypeMetrics `json:"by_room_type" bson:"by_room_type"`
	MonthlyBookings  map[string]int             `json:"monthly_bookings" bson:"monthly_bookings"`
	WeekdayBookings  map[string]int             `json:"weekday_bookings" bson:"weekday_bookings"`
	MeanLeadTimeDays float64                    `json:"mean_lead_time_days" bson:"mean_lead_time_days"`
}

type RoomTypeMetrics struct {
	Bookings int     `json:"bookings" bson:"bookings"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
	Nights   int     `json:"nights" bson:"nights"`
}

// CustomerAnalysis profiles spend and loyalty over the window.
type CustomerAnalysis struct {
	UniqueCustomers   int                `json:"unique_customers" bson:"unique_customers"`
	TopCustomers      []CustomerSpend    `json:"top_customers" bson:"top_customers"`
	Tiers             map[string]int     `json:"tiers" bson:"tiers"`
	RepeatCustomers   int                `json:"repeat_customers" bson:"repeat_customers"`
	RepeatRatePct     float64            `json:"repeat_rate_pct" bson:"repeat_rate_pct"`
	MeanCustomerValue float64            `json:"mean_customer_value" bson:"mean_customer_value"`
}

type CustomerSpend struct {
	Email    string  `json:"email" bson:"email"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
	Bookings int     `json:"bookings" bson:"bookings"`
	Nights   int     `json:"nights" bson:"nights"`
}

// DemandForecast is the naive mean+seasonality+trend projection.
type DemandForecast struct {
	Points         []ForecastPoint `json:"points" bson:"points"`
	HistoricalMean float64         `json:"historical_mean" bson:"historical_mean"`
	TrendCorr      float64         `json:"trend_corr" bson:"trend_corr"`
	BasePeriod     string          `json:"base_period" bson:"base_period"`
}

type ForecastPoint struct {
	Date       string  `json:"date" bson:"date"`
	Bookings   float64 `json:"bookings" bson:"bookings"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	LowerBound float64 `json:"lower_bound" bson:"lower_bound"`
	UpperBound float64 `json:"upper_bound" bson:"upper_bound"`
}

// SentimentSummary is the keyword-lexicon review analysis.
type SentimentSummary struct {
	TotalReviews      int            `json:"total_reviews" bson:"total_reviews"`
	Distribution      map[string]int `json:"distribution" bson:"distribution"`
	SatisfactionPct   float64        `json:"satisfaction_pct" bson:"satisfaction_pct"`
	NegativeReviews   int            `json:"negative_reviews" bson:"negative_reviews"`
	ImprovementPoints []string       `json:"improvement_points" bson:"improvement_points"`
	ActionAdvice      string         `json:"action_advice" bson:"action_advice"`
}

// Alert is a management alert raised from the metrics.
type Alert struct {
	Kind            string `json:"kind" bson:"kind"`
	Priority        string `json:"priority" bson:"priority"`
	Message         string `json:"message" bson:"message"`
	SuggestedAction string `json:"suggested_action" bson:"suggested_action"`
}

// Report is the consolidated artifact of one pipeline run, keyed by date.
type Report struct {
	Date        string            `json:"date" bson:"_id"`
	WindowStart string            `json:"window_start" bson:"window_start"`
	WindowEnd   string            `json:"window_end" bson:"window_end"`
	DataSource  string            `json:"data_source" bson:"data_source"`
	Occupancy   OccupancyMetrics  `json:"occupancy" bson:"occupancy"`
	Customers   CustomerAnalysis  `json:"customers" bson:"customers"`
	Forecast    DemandForecast    `json:"forecast" bson:"forecast"`
	Sentiment   *SentimentSummary `json:"sentiment,omitempty" bson:"sentiment,omitempty"`
	Insights    []string          `json:"insights" bson:"insights"`
	Alerts      []Alert           `json:"alerts" bson:"alerts"`
	GeneratedAt time.Time         `json:"generated_at" bson:"generated_at"`
}
