package segmentation

import "github.com/lucasrivera/shoppulse-backend/internal/rfm"

// SegmentedRecord is an RFM record with its cluster assignment.
type SegmentedRecord struct {
	rfm.Record
	SegmentID int `json:"segment_id"`
}

// Characteristics holds per-segment feature means.
type Characteristics struct {
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
	AvgRFMScore  float64 `json:"avg_rfm_score"`
}

// Segment is the aggregate view of one cluster.
type Segment struct {
	SegmentID       int             `json:"segment_id"`
	SegmentName     string          `json:"segment_name"`
	CustomerCount   int             `json:"customer_count"`
	TotalRevenue    float64         `json:"total_revenue"`
	AvgOrderValue   float64         `json:"avg_order_value"`
	Characteristics Characteristics `json:"characteristics"`
	SizePercentage  float64         `json:"size_percentage"`
}

// SegmentCustomer is one row in a segment's customer listing.
type SegmentCustomer struct {
	CustomerID     string         `json:"customer_id"`
	RFMScores      map[string]int `json:"rfm_scores"`
	TotalPurchases int            `json:"total_purchases"`
	TotalSpend     float64        `json:"total_spend"`
	RFMScore       int            `json:"rfm_score"`
}

// VisualizationData feeds the dashboard segment charts.
type VisualizationData struct {
	Labels      []string  `json:"labels"`
	Values      []int     `json:"values"`
	Revenues    []float64 `json:"revenues"`
	Colors      []string  `json:"colors"`
	Percentages []float64 `json:"percentages"`
}

// SegmentColors is the fixed chart palette, indexed by display position.
var SegmentColors = []string{
	"#00F0FF", // cyan
	"#7000FF", // purple
	"#FF00AA", // pink
	"#0066FF", // blue
	"#00FF88", // green
	"#FFD700", // gold
	"#FF6B00", // orange
	"#FF6D6D", // red
}
