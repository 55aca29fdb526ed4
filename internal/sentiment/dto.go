package sentiment

import "github.com/lucasrivera/shoppulse-backend/internal/transactions"

// Label is the discrete sentiment class derived from a rating.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"
)

// Rating thresholds for labeling.
const (
	positiveThreshold = 4.0
	negativeThreshold = 3.0
)

// Gauge score bands.
const (
	gaugePositiveFloor = 70.0
	gaugeNeutralFloor  = 40.0
)

// Chart colors per label.
var labelColors = map[Label]string{
	LabelPositive: "#00FF88",
	LabelNeutral:  "#FFD700",
	LabelNegative: "#FF6D6D",
}

// Scored pairs one transaction with its sentiment score and label.
type Scored struct {
	Tx    transactions.Transaction `json:"-"`
	Score float64                  `json:"sentiment_score"`
	Label Label                    `json:"sentiment_label"`
}

// Distribution counts reviews per label.
type Distribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Percentages holds the label shares of the total review count.
type Percentages struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Overview is the merchant-wide sentiment summary.
type Overview struct {
	OverallScore       float64        `json:"overall_score"`
	AverageRating      float64        `json:"average_rating"`
	TotalReviews       int            `json:"total_reviews"`
	Distribution       Distribution   `json:"distribution"`
	Percentages        Percentages    `json:"percentages"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

// CategorySentiment is one category's aggregate.
type CategorySentiment struct {
	Category           string  `json:"category"`
	SentimentScore     float64 `json:"sentiment_score"`
	AvgRating          float64 `json:"avg_rating"`
	ReviewCount        int     `json:"review_count"`
	PositivePercentage float64 `json:"positive_percentage"`
	Trend              string  `json:"trend"`
}

// ProductSentiment is one product's aggregate.
type ProductSentiment struct {
	ProductName    string  `json:"product_name"`
	SentimentScore float64 `json:"sentiment_score"`
	AvgRating      float64 `json:"avg_rating"`
	ReviewCount    int     `json:"review_count"`
	PurchaseCount  int     `json:"purchase_count"`
}

// TrendPoint is one resampled time bucket.
type TrendPoint struct {
	Date               string  `json:"date"`
	AvgSentiment       float64 `json:"avg_sentiment"`
	AvgRating          float64 `json:"avg_rating"`
	PositivePercentage float64 `json:"positive_percentage"`
}

// Keyword is one frequency-weighted review term.
type Keyword struct {
	Word      string  `json:"word"`
	Count     int     `json:"count"`
	Sentiment float64 `json:"sentiment"`
}

// Keywords groups extracted terms by polarity. When no review text exists
// the set is a static illustrative fallback, not derived from real text.
type Keywords struct {
	Positive []Keyword `json:"positive_keywords"`
	Negative []Keyword `json:"negative_keywords"`
}

// Gauge feeds the dashboard sentiment dial.
type Gauge struct {
	Score        float64      `json:"score"`
	Label        Label        `json:"label"`
	Color        string       `json:"color"`
	Distribution Distribution `json:"distribution"`
	Total        int          `json:"total"`
}
