package recommendations

import (
	"github.com/lucasrivera/shoppulse-backend/internal/basket"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
)

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Recommendation categories.
const (
	CategoryMerchandising      = "Merchandising"
	CategoryMarketing          = "Marketing"
	CategoryProduct            = "Product"
	CategoryCustomerExperience = "Customer Experience"
)

// Suggested execution timelines.
const (
	TimelineImmediate = "Immediate"
	Timeline30Days    = "30 days"
	Timeline60Days    = "60 days"
	Timeline90Days    = "90 days"
)

// Inputs carries the upstream analysis signals the composer draws from.
// Rules and Bundles are expected in their producing order, lift descending.
type Inputs struct {
	Segments   []segmentation.Segment
	Rules      []basket.Rule
	Bundles    []basket.Bundle
	Overview   sentiment.Overview
	Categories []sentiment.CategorySentiment
}

// Recommendation is one actionable insight with its supporting evidence.
type Recommendation struct {
	ID                  string         `json:"id"`
	Category            string         `json:"category"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	ExpectedImpact      string         `json:"expected_impact"`
	Priority            Priority       `json:"priority"`
	Timeline            string         `json:"timeline"`
	DataSupport         map[string]any `json:"data_support"`
	ImplementationSteps []string       `json:"implementation_steps"`
	Rank                int            `json:"rank"`
}

// Filter narrows a composed list after ranking. Zero fields match everything.
type Filter struct {
	Category string
	Priority Priority
}

// Summary counts recommendations by priority, category and timeline.
type Summary struct {
	Total          int            `json:"total"`
	HighPriority   int            `json:"high_priority"`
	MediumPriority int            `json:"medium_priority"`
	LowPriority    int            `json:"low_priority"`
	ByCategory     map[string]int `json:"by_category"`
	ByTimeline     map[string]int `json:"by_timeline"`
}
