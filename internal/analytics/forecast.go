package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hostal/pkg/model"
)

// DailyStat is one day of aggregated demand with its calendar features.
type DailyStat struct {
	Date       time.Time
	Bookings   int
	Revenue    float64
	Guests     int
	Holiday    bool
	HighSeason bool
}

// Fixed-date Mexican holidays.
var mexicanHolidays = map[[2]int]bool{
	{1, 1}:   true, // New Year
	{2, 5}:   true, // Constitution Day
	{3, 21}:  true, // Benito Juárez's birthday
	{5, 1}:   true, // Labor Day
	{9, 16}:  true, // Independence Day
	{11, 20}: true, // Revolution Day
	{12, 25}: true, // Christmas
}

func IsMexicanHoliday(t time.Time) bool {
	return mexicanHolidays[[2]int{int(t.Month()), t.Day()}]
}

// High season in Bacalar: winter months plus the July/August vacation peak.
func IsHighSeason(m time.Month) bool {
	switch m {
	case time.December, time.January, time.February, time.July, time.August:
		return true
	}
	return false
}

// BuildDailySeries aggregates stays per check-in day, sorted by date. Days
// with no bookings do not appear.
func BuildDailySeries(records []StayRecord) []DailyStat {
	byDay := make(map[time.Time]*DailyStat)
	for _, rec := range records {
		day := rec.Booking.CheckIn.Truncate(24 * time.Hour)
		stat, ok := byDay[day]
		if !ok {
			stat = &DailyStat{
				Date:       day,
				Holiday:    IsMexicanHoliday(day),
				HighSeason: IsHighSeason(day.Month()),
			}
			byDay[day] = stat
		}
		stat.Bookings++
		stat.Revenue = round2(stat.Revenue + rec.Booking.TotalPrice)
		stat.Guests += rec.Booking.GuestCount
	}

	series := make([]DailyStat, 0, len(byDay))
	for _, stat := range byDay {
		series = append(series, *stat)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// pearson computes the correlation between the day index and the booking
// count, the trend signal of the naive model.
func pearson(counts []int) float64 {
	n := float64(len(counts))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, c := range counts {
		x, y := float64(i), float64(c)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	num := n*sumXY - sumX*sumY
	den := math.Sqrt(n*sumXX-sumX*sumX) * math.Sqrt(n*sumYY-sumY*sumY)
	if den == 0 {
		return 0
	}
	return num / den
}

const (
	forecastTailDays   = 30
	forecastConfidence = 0.8
	trendStep          = 0.1
	lowerBoundFactor   = 0.7
	upperBoundFactor   = 1.3
)

// Forecast projects daily demand over the horizon with the naive model:
// mean of the last 30 observed days, adjusted by weekday seasonality and a
// linear trend scaled from the index correlation, clamped at zero.
func Forecast(series []DailyStat, horizonDays int) model.DemandForecast {
	if len(series) == 0 {
		return model.DemandForecast{}
	}

	tail := series
	if len(tail) > forecastTailDays {
		tail = tail[len(tail)-forecastTailDays:]
	}
	var tailSum int
	for _, stat := range tail {
		tailSum += stat.Bookings
	}
	mean := float64(tailSum) / float64(len(tail))

	weekdaySum := make(map[time.Weekday]int)
	weekdayCount := make(map[time.Weekday]int)
	counts := make([]int, len(series))
	for i, stat := range series {
		weekdaySum[stat.Date.Weekday()] += stat.Bookings
		weekdayCount[stat.Date.Weekday()]++
		counts[i] = stat.Bookings
	}

	trendCorr := pearson(counts)
	start := series[len(series)-1].Date.AddDate(0, 0, 1)

	points := make([]model.ForecastPoint, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		day := start.AddDate(0, 0, i)

		seasonalFactor := 1.0
		if n := weekdayCount[day.Weekday()]; n > 0 && mean > 0 {
			seasonalFactor = (float64(weekdaySum[day.Weekday()]) / float64(n)) / mean
		}

		projected := mean*seasonalFactor + trendCorr*float64(i)*trendStep
		if projected < 0 {
			projected = 0
		}

		points = append(points, model.ForecastPoint{
			Date:       day.Format(model.DateLayout),
			Bookings:   round2(projected),
			Confidence: forecastConfidence,
			LowerBound: round2(projected * lowerBoundFactor),
			UpperBound: round2(projected * upperBoundFactor),
		})
	}

	return model.DemandForecast{
		Points:         points,
		HistoricalMean: round2(mean),
		TrendCorr:      round2(trendCorr),
		BasePeriod: fmt.Sprintf("%s to %s",
			series[0].Date.Format(model.DateLayout),
			series[len(series)-1].Date.Format(model.DateLayout)),
	}
}
