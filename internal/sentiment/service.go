package sentiment

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
)

// SortByReviewCount and SortByScore select the product ordering.
const (
	SortByReviewCount = "review_count"
	SortByScore       = "sentiment_score"
)

const DefaultTopProducts = 20

// Service converts transaction ratings into sentiment scores and aggregates.
type Service interface {
	Score(ctx context.Context, txs []transactions.Transaction) []Scored
	Overview(scored []Scored) Overview
	ByCategory(scored []Scored) []CategorySentiment
	ByProduct(scored []Scored, topN int, sortBy string) []ProductSentiment
	Trends(scored []Scored) []TrendPoint
	Keywords(ctx context.Context, txs []transactions.Transaction) Keywords
	Gauge(scored []Scored) Gauge
}

type service struct{}

// NewService constructs the sentiment scorer.
func NewService() Service {
	return &service{}
}

// Score maps each rating r in [1,5] onto (r-1)/4*100 and labels it.
func (s *service) Score(ctx context.Context, txs []transactions.Transaction) []Scored {
	out := make([]Scored, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Scored{
			Tx:    tx,
			Score: (tx.Rating - 1) / 4 * 100,
			Label: labelForRating(tx.Rating),
		})
	}
	return out
}

func labelForRating(rating float64) Label {
	switch {
	case rating >= positiveThreshold:
		return LabelPositive
	case rating >= negativeThreshold:
		return LabelNeutral
	default:
		return LabelNegative
	}
}

// Overview aggregates the full scored set. Empty input yields the zero
// overview with an empty rating histogram.
func (s *service) Overview(scored []Scored) Overview {
	overview := Overview{RatingDistribution: map[string]int{}}
	if len(scored) == 0 {
		return overview
	}

	var sumScore, sumRating float64
	for _, rec := range scored {
		sumScore += rec.Score
		sumRating += rec.Tx.Rating
		switch rec.Label {
		case LabelPositive:
			overview.Distribution.Positive++
		case LabelNeutral:
			overview.Distribution.Neutral++
		default:
			overview.Distribution.Negative++
		}
		overview.RatingDistribution[formatRating(rec.Tx.Rating)]++
	}

	total := float64(len(scored))
	overview.OverallScore = round2(sumScore / total)
	overview.AverageRating = round2(sumRating / total)
	overview.TotalReviews = len(scored)
	overview.Percentages = Percentages{
		Positive: round2(float64(overview.Distribution.Positive) / total * 100),
		Neutral:  round2(float64(overview.Distribution.Neutral) / total * 100),
		Negative: round2(float64(overview.Distribution.Negative) / total * 100),
	}
	return overview
}

// ByCategory aggregates per category, sorted by sentiment score descending.
func (s *service) ByCategory(scored []Scored) []CategorySentiment {
	type acc struct {
		score, rating float64
		count         int
		positive      int
	}
	byCategory := map[string]*acc{}
	for _, rec := range scored {
		a, ok := byCategory[rec.Tx.Category]
		if !ok {
			a = &acc{}
			byCategory[rec.Tx.Category] = a
		}
		a.score += rec.Score
		a.rating += rec.Tx.Rating
		a.count++
		if rec.Label == LabelPositive {
			a.positive++
		}
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategorySentiment, 0, len(names))
	for _, name := range names {
		a := byCategory[name]
		n := float64(a.count)
		out = append(out, CategorySentiment{
			Category:           name,
			SentimentScore:     round2(a.score / n),
			AvgRating:          round2(a.rating / n),
			ReviewCount:        a.count,
			PositivePercentage: round2(float64(a.positive) / n * 100),
			Trend:              "stable",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentimentScore > out[j].SentimentScore
	})
	return out
}

// ByProduct aggregates per product and returns the top N by the requested
// ordering.
func (s *service) ByProduct(scored []Scored, topN int, sortBy string) []ProductSentiment {
	if topN <= 0 {
		topN = DefaultTopProducts
	}

	type acc struct {
		score, rating float64
		count         int
	}
	byProduct := map[string]*acc{}
	for _, rec := range scored {
		a, ok := byProduct[rec.Tx.ProductName]
		if !ok {
			a = &acc{}
			byProduct[rec.Tx.ProductName] = a
		}
		a.score += rec.Score
		a.rating += rec.Tx.Rating
		a.count++
	}

	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ProductSentiment, 0, len(names))
	for _, name := range names {
		a := byProduct[name]
		n := float64(a.count)
		out = append(out, ProductSentiment{
			ProductName:    name,
			SentimentScore: round2(a.score / n),
			AvgRating:      round2(a.rating / n),
			ReviewCount:    a.count,
			PurchaseCount:  a.count,
		})
	}

	if sortBy == SortByScore {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SentimentScore > out[j].SentimentScore
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReviewCount > out[j].ReviewCount
		})
	}

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Trends resamples scores into weekly buckets labeled by the week-ending
// Sunday, ascending.
func (s *service) Trends(scored []Scored) []TrendPoint {
	type acc struct {
		score, rating float64
		count         int
		positive      int
	}
	byWeek := map[string]*acc{}
	for _, rec := range scored {
		if rec.Tx.Date.IsZero() {
			continue
		}
		week := weekEnding(rec.Tx.Date)
		a, ok := byWeek[week]
		if !ok {
			a = &acc{}
			byWeek[week] = a
		}
		a.score += rec.Score
		a.rating += rec.Tx.Rating
		a.count++
		if rec.Label == LabelPositive {
			a.positive++
		}
	}

	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	out := make([]TrendPoint, 0, len(weeks))
	for _, week := range weeks {
		a := byWeek[week]
		n := float64(a.count)
		out = append(out, TrendPoint{
			Date:               week,
			AvgSentiment:       round2(a.score / n),
			AvgRating:          round2(a.rating / n),
			PositivePercentage: round2(float64(a.positive) / n * 100),
		})
	}
	return out
}

// Keywords returns review terms per polarity. With no free-text review
// source wired in, this is the static illustrative set.
func (s *service) Keywords(ctx context.Context, txs []transactions.Transaction) Keywords {
	return Keywords{
		Positive: []Keyword{
			{Word: "quality", Count: 450, Sentiment: 0.85},
			{Word: "comfortable", Count: 380, Sentiment: 0.92},
			{Word: "fast shipping", Count: 320, Sentiment: 0.88},
			{Word: "great value", Count: 290, Sentiment: 0.87},
			{Word: "highly recommend", Count: 275, Sentiment: 0.95},
			{Word: "perfect fit", Count: 240, Sentiment: 0.90},
			{Word: "excellent", Count: 220, Sentiment: 0.93},
			{Word: "love it", Count: 200, Sentiment: 0.96},
		},
		Negative: []Keyword{
			{Word: "expensive", Count: 125, Sentiment: -0.65},
			{Word: "sizing issues", Count: 98, Sentiment: -0.72},
			{Word: "slow delivery", Count: 85, Sentiment: -0.68},
			{Word: "poor quality", Count: 72, Sentiment: -0.85},
			{Word: "disappointed", Count: 65, Sentiment: -0.78},
			{Word: "not as described", Count: 58, Sentiment: -0.80},
		},
	}
}

// Gauge shapes the overview for the dashboard dial.
func (s *service) Gauge(scored []Scored) Gauge {
	overview := s.Overview(scored)
	label := gaugeLabel(overview.OverallScore)
	return Gauge{
		Score:        overview.OverallScore,
		Label:        label,
		Color:        labelColors[label],
		Distribution: overview.Distribution,
		Total:        overview.TotalReviews,
	}
}

func gaugeLabel(score float64) Label {
	switch {
	case score >= gaugePositiveFloor:
		return LabelPositive
	case score >= gaugeNeutralFloor:
		return LabelNeutral
	default:
		return LabelNegative
	}
}

// weekEnding returns the date of the Sunday closing the week of t.
func weekEnding(t time.Time) string {
	offset := (7 - int(t.Weekday())) % 7
	return t.AddDate(0, 0, offset).Format("2006-01-02")
}

func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'g', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
