package analytics

import (
	"sort"
	"strings"

	"hostal/pkg/model"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Keyword lexicons for guest reviews, Spanish and English mixed the way
// guests actually write.
var positiveWords = []string{
	"incredible", "amazing", "perfect", "great", "excellent", "recommend",
	"magical", "wonderful", "friendly", "clean", "lovely", "best",
	"increíble", "perfecto", "excelente", "recomiendo", "mágico", "hermoso",
	"amable", "limpio",
}

var negativeWords = []string{
	"dirty", "broken", "bad", "worst", "terrible", "awful", "rude", "noisy",
	"uncomfortable", "disappointing",
	"sucio", "roto", "malo", "terrible", "ruidoso", "incómodo", "decepcionante",
}

// Improvement categories keyed by the words that flag them in negative
// reviews.
var improvementKeywords = map[string][]string{
	"cleanliness": {"dirty", "clean", "hygiene", "sucio", "limpieza", "higiene"},
	"service":     {"service", "staff", "attention", "rude", "atención", "personal", "servicio"},
	"facilities":  {"room", "bathroom", "bed", "shower", "cuarto", "baño", "cama", "ducha"},
	"wifi":        {"wifi", "internet", "connection", "conexión"},
	"noise":       {"noise", "noisy", "loud", "ruido", "ruidoso"},
	"location":    {"location", "access", "transport", "ubicación", "acceso", "transporte"},
}

func countHits(text string, words []string) int {
	hits := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			hits++
		}
	}
	return hits
}

// AnalyzeSentiment classifies each review by lexicon hits and summarizes the
// distribution, satisfaction and the improvement points the negative
// reviews cluster around. Returns nil when there is nothing to analyze.
func AnalyzeSentiment(reviews []*model.Review) *model.SentimentSummary {
	if len(reviews) == 0 {
		return nil
	}

	summary := &model.SentimentSummary{
		TotalReviews: len(reviews),
		Distribution: map[string]int{
			SentimentPositive: 0,
			SentimentNegative: 0,
			SentimentNeutral:  0,
		},
	}

	categoryHits := make(map[string]int)

	for _, review := range reviews {
		text := strings.ToLower(review.Text)
		positive := countHits(text, positiveWords)
		negative := countHits(text, negativeWords)

		switch {
		case positive > negative:
			summary.Distribution[SentimentPositive]++
		case negative > positive:
			summary.Distribution[SentimentNegative]++
			summary.NegativeReviews++
			for category, words := range improvementKeywords {
				if countHits(text, words) > 0 {
					categoryHits[category]++
				}
			}
		default:
			summary.Distribution[SentimentNeutral]++
		}
	}

	summary.SatisfactionPct = round2(
		float64(summary.Distribution[SentimentPositive]) / float64(summary.TotalReviews) * 100)
	summary.ImprovementPoints = rankCategories(categoryHits)
	summary.ActionAdvice = actionAdvice(summary.SatisfactionPct)
	return summary
}

// rankCategories orders improvement categories by hit count, top five.
func rankCategories(hits map[string]int) []string {
	type categoryCount struct {
		category string
		count    int
	}
	ranked := make([]categoryCount, 0, len(hits))
	for category, count := range hits {
		ranked = append(ranked, categoryCount{category, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].category < ranked[j].category
	})

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	out := make([]string, len(ranked))
	for i, rc := range ranked {
		out[i] = rc.category
	}
	return out
}

func actionAdvice(satisfactionPct float64) string {
	switch {
	case satisfactionPct >= 90:
		return "Excellent. Keep the current quality standard."
	case satisfactionPct >= 80:
		return "Good level. Focus on the small issues identified."
	case satisfactionPct >= 70:
		return "Attention needed. Review the improvement points urgently."
	default:
		return "Immediate action needed. Put an improvement plan in place."
	}
}
