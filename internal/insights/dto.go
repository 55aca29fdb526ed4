package insights

import (
	"time"

	"github.com/lucasrivera/shoppulse-backend/internal/basket"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
)

// Params carries per-run overrides. Zero values fall back to the configured
// pipeline defaults.
type Params struct {
	ClusterCount int
	Basket       basket.Params
	Now          time.Time
}

// SentimentReport groups every sentiment view computed for a scope.
type SentimentReport struct {
	Overview   sentiment.Overview            `json:"overview"`
	ByCategory []sentiment.CategorySentiment `json:"by_category"`
	ByProduct  []sentiment.ProductSentiment  `json:"by_product"`
	Trends     []sentiment.TrendPoint        `json:"trends"`
	Keywords   sentiment.Keywords            `json:"keywords"`
	Gauge      sentiment.Gauge               `json:"gauge"`
}

// Snapshot is the full analysis result for one scope. It is what gets
// cached and what the read endpoints serve from.
type Snapshot struct {
	MerchantID       string                           `json:"merchant_id"`
	UploadID         string                           `json:"upload_id,omitempty"`
	GeneratedAt      time.Time                        `json:"generated_at"`
	TransactionCount int                              `json:"transaction_count"`
	CustomerCount    int                              `json:"customer_count"`
	Segmented        []segmentation.SegmentedRecord   `json:"segmented"`
	SegmentNames     map[int]string                   `json:"segment_names"`
	Segments         []segmentation.Segment           `json:"segments"`
	Visualization    segmentation.VisualizationData   `json:"visualization"`
	Rules            []basket.Rule                    `json:"rules"`
	ItemSets         []basket.ItemSet                 `json:"item_sets"`
	Bundles          []basket.Bundle                  `json:"bundles"`
	Network          basket.Network                   `json:"network"`
	Sentiment        SentimentReport                  `json:"sentiment"`
	Personas         []personas.Persona               `json:"personas"`
	Recommendations  []recommendations.Recommendation `json:"recommendations"`
	Narrative        string                           `json:"narrative"`
}

// SummaryView is the condensed dashboard header for one snapshot.
type SummaryView struct {
	MerchantID       string                  `json:"merchant_id"`
	UploadID         string                  `json:"upload_id,omitempty"`
	GeneratedAt      time.Time               `json:"generated_at"`
	TransactionCount int                     `json:"transaction_count"`
	CustomerCount    int                     `json:"customer_count"`
	SegmentCount     int                     `json:"segment_count"`
	TopSegment       string                  `json:"top_segment,omitempty"`
	OverallSentiment float64                 `json:"overall_sentiment"`
	Recommendations  recommendations.Summary `json:"recommendations"`
	Narrative        string                  `json:"narrative"`
}
