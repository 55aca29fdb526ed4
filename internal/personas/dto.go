package personas

import "github.com/lucasrivera/shoppulse-backend/internal/segmentation"

// Demographics summarizes who the segment's customers are.
type Demographics struct {
	AgeRange     string         `json:"age_range"`
	GenderSplit  map[string]int `json:"gender_split"`
	TopLocations map[string]int `json:"top_locations"`
}

// Behavior summarizes how the segment shops.
type Behavior struct {
	AvgOrderValue     float64 `json:"avg_order_value"`
	PurchaseFrequency string  `json:"purchase_frequency"`
	TotalCustomers    int     `json:"total_customers"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgRecency        float64 `json:"avg_recency"`
	AvgRFMScore       float64 `json:"avg_rfm_score"`
}

// Preferences summarizes checkout habits.
type Preferences struct {
	PreferredPayment    string  `json:"preferred_payment"`
	PreferredShipping   string  `json:"preferred_shipping"`
	DiscountSensitivity float64 `json:"discount_sensitivity"`
}

// Persona is the narrative identity layered over one segment. It is
// regenerated on every run, never stored.
type Persona struct {
	PersonaID      int          `json:"persona_id"`
	Name           string       `json:"name"`
	Role           string       `json:"role"`
	AvatarInitials string       `json:"avatar_initials"`
	Description    string       `json:"description"`
	Color          string       `json:"color"`
	Demographics   Demographics `json:"demographics"`
	Behavior       Behavior     `json:"behavior"`
	Preferences    Preferences  `json:"preferences"`
	SegmentID      int          `json:"segment_id"`
}

// Detail is a persona extended with its marketing playbook.
type Detail struct {
	Persona
	MarketingRecommendations []string                       `json:"marketing_recommendations"`
	SampleCustomers          []segmentation.SegmentCustomer `json:"sample_customers,omitempty"`
}
