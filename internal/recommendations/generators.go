package recommendations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
)

const (
	lowCategoryScore      = 70.0
	lowOverallScore       = 60.0
	opportunityMinLift    = 2.0
	opportunityMaxSupport = 0.1
)

func merchandising(in Inputs) []Recommendation {
	recs := make([]Recommendation, 0, 2)

	if len(in.Bundles) > 0 {
		top := in.Bundles[0]
		recs = append(recs, Recommendation{
			ID:       "MERCH-001",
			Category: CategoryMerchandising,
			Title:    fmt.Sprintf("Create Product Bundle: %s", top.BundleName),
			Description: fmt.Sprintf(
				"These products have a strong affinity (lift: %.2fx). Bundling them could increase average order value by %s.",
				top.AffinityScore, top.EstimatedLift,
			),
			ExpectedImpact: fmt.Sprintf("10-%s increase in AOV", top.EstimatedLift),
			Priority:       PriorityHigh,
			Timeline:       TimelineImmediate,
			DataSupport: map[string]any{
				"affinity_score": top.AffinityScore,
				"confidence":     top.Confidence,
				"estimated_lift": top.EstimatedLift,
			},
			ImplementationSteps: []string{
				fmt.Sprintf("Create bundle listing for %s", top.BundleName),
				"Set bundle price (5-10% discount vs individual)",
				"Feature on homepage and product pages",
				"Monitor conversion rate and AOV impact",
			},
		})
	}

	if len(in.Rules) > 0 {
		top := in.Rules[0]
		antecedent := top.AntecedentLabel()
		consequent := top.ConsequentLabel()
		recs = append(recs, Recommendation{
			ID:       "MERCH-002",
			Category: CategoryMerchandising,
			Title:    fmt.Sprintf("Add Cross-sell: %s → %s", antecedent, consequent),
			Description: fmt.Sprintf(
				"Customers who buy %s often purchase %s (confidence: %.1f%%).",
				antecedent, consequent, top.Confidence*100,
			),
			ExpectedImpact: "5-15% increase in cross-sell conversion",
			Priority:       PriorityMedium,
			Timeline:       Timeline30Days,
			DataSupport: map[string]any{
				"confidence": top.Confidence,
				"lift":       top.Lift,
				"support":    top.Support,
			},
			ImplementationSteps: []string{
				"Add 'Frequently Bought Together' widget",
				"Configure cross-sell on product pages",
				"A/B test placement and messaging",
			},
		})
	}

	return recs
}

func marketing(in Inputs) []Recommendation {
	recs := make([]Recommendation, 0, 3)

	if champions, ok := findSegment(in.Segments, "Champions"); ok {
		recs = append(recs, Recommendation{
			ID:       "MKT-001",
			Category: CategoryMarketing,
			Title:    "Launch VIP Loyalty Program for Champions",
			Description: fmt.Sprintf(
				"Your Champions segment (%d customers, $%s revenue) represents your most valuable customers. Implement a VIP program to retain and reward them.",
				champions.CustomerCount, formatAmount(champions.TotalRevenue),
			),
			ExpectedImpact: "15-25% increase in retention",
			Priority:       PriorityHigh,
			Timeline:       Timeline30Days,
			DataSupport: map[string]any{
				"segment_name":   champions.SegmentName,
				"customer_count": champions.CustomerCount,
				"total_revenue":  champions.TotalRevenue,
			},
			ImplementationSteps: []string{
				"Define VIP tiers and benefits",
				"Create exclusive offers for Champions",
				"Send personalized invitations",
				"Track engagement and redemption rates",
			},
		})
	}

	if atRisk, ok := findSegment(in.Segments, "At Risk"); ok {
		recs = append(recs, Recommendation{
			ID:       "MKT-002",
			Category: CategoryMarketing,
			Title:    "Win-Back Campaign for At-Risk Customers",
			Description: fmt.Sprintf(
				"%d customers are at risk of churning. Launch a targeted win-back campaign with special offers.",
				atRisk.CustomerCount,
			),
			ExpectedImpact: "20-40% reactivation rate",
			Priority:       PriorityHigh,
			Timeline:       TimelineImmediate,
			DataSupport: map[string]any{
				"segment_name":   atRisk.SegmentName,
				"customer_count": atRisk.CustomerCount,
				"total_revenue":  atRisk.TotalRevenue,
			},
			ImplementationSteps: []string{
				"Segment at-risk customers",
				"Create compelling win-back offer",
				"Design email sequence (3-5 emails)",
				"Monitor reactivation and adjust messaging",
			},
		})
	}

	if seekers, ok := findSegment(in.Segments, "Value Seekers"); ok {
		recs = append(recs, Recommendation{
			ID:       "MKT-003",
			Category: CategoryMarketing,
			Title:    "Promotional Campaign for Value Seekers",
			Description: fmt.Sprintf(
				"%d value-conscious customers respond well to discounts and promotions. Create targeted promotional campaigns.",
				seekers.CustomerCount,
			),
			ExpectedImpact: "10-20% increase in conversion",
			Priority:       PriorityMedium,
			Timeline:       Timeline30Days,
			DataSupport: map[string]any{
				"segment_name":   seekers.SegmentName,
				"customer_count": seekers.CustomerCount,
			},
			ImplementationSteps: []string{
				"Create discount codes",
				"Send promotional emails",
				"Highlight sale items",
				"Use urgency tactics (limited time)",
			},
		})
	}

	return recs
}

func sentimentDriven(in Inputs) []Recommendation {
	recs := make([]Recommendation, 0, 2)

	for _, cat := range in.Categories {
		if cat.SentimentScore >= lowCategoryScore {
			continue
		}
		recs = append(recs, Recommendation{
			ID:       "SEN-001",
			Category: CategoryProduct,
			Title:    fmt.Sprintf("Address Issues in %s", cat.Category),
			Description: fmt.Sprintf(
				"%s has low sentiment (%.1f/100). Investigate product quality or customer concerns.",
				cat.Category, cat.SentimentScore,
			),
			ExpectedImpact: "Improved customer satisfaction",
			Priority:       PriorityHigh,
			Timeline:       TimelineImmediate,
			DataSupport: map[string]any{
				"category":        cat.Category,
				"sentiment_score": cat.SentimentScore,
				"avg_rating":      cat.AvgRating,
			},
			ImplementationSteps: []string{
				fmt.Sprintf("Review %s product quality", cat.Category),
				"Analyze customer feedback and reviews",
				"Identify common complaints",
				"Implement improvements or replacements",
			},
		})
		break
	}

	if in.Overview.TotalReviews > 0 && in.Overview.OverallScore < lowOverallScore {
		recs = append(recs, Recommendation{
			ID:       "SEN-002",
			Category: CategoryCustomerExperience,
			Title:    "Improve Overall Customer Satisfaction",
			Description: fmt.Sprintf(
				"Overall sentiment score is %.1f/100, which is below target. Implement customer experience improvements.",
				in.Overview.OverallScore,
			),
			ExpectedImpact: "10-20 point sentiment improvement",
			Priority:       PriorityHigh,
			Timeline:       Timeline60Days,
			DataSupport: map[string]any{
				"overall_score":       in.Overview.OverallScore,
				"negative_percentage": in.Overview.Percentages.Negative,
			},
			ImplementationSteps: []string{
				"Survey customers for feedback",
				"Identify pain points in customer journey",
				"Train customer service team",
				"Implement feedback loop",
			},
		})
	}

	return recs
}

func productExpansion(in Inputs) []Recommendation {
	for _, rule := range in.Rules {
		if rule.Lift <= opportunityMinLift || rule.Support >= opportunityMaxSupport {
			continue
		}
		antecedent := rule.AntecedentLabel()
		consequent := rule.ConsequentLabel()
		return []Recommendation{{
			ID:       "PROD-001",
			Category: CategoryProduct,
			Title:    fmt.Sprintf("Expand Product Line: %s", antecedent),
			Description: fmt.Sprintf(
				"Strong affinity (%.1fx lift) between %s and %s suggests market opportunity. Consider expanding product variants or related items.",
				rule.Lift, antecedent, consequent,
			),
			ExpectedImpact: "5-15% revenue growth",
			Priority:       PriorityMedium,
			Timeline:       Timeline90Days,
			DataSupport: map[string]any{
				"lift":     rule.Lift,
				"products": []string{antecedent, consequent},
			},
			ImplementationSteps: []string{
				"Research product expansion opportunities",
				"Survey customers for desired features",
				"Test new product variants",
				"Monitor sales performance",
			},
		}}
	}
	return nil
}

func findSegment(segments []segmentation.Segment, name string) (segmentation.Segment, bool) {
	for _, s := range segments {
		if s.SegmentName == name {
			return s, true
		}
	}
	return segmentation.Segment{}, false
}

// formatAmount renders a dollar amount with thousands separators.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	return sign + strings.Join(groups, ",") + frac
}
