package basket

import (
	"context"
	"fmt"

	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
)

// Network node colors, bucketed by revenue share of the top product.
const (
	colorHigh      = "#00F0FF"
	colorMedium    = "#7000FF"
	colorLowMedium = "#FF00AA"
	colorLow       = "#0066FF"
)

// Service mines co-purchase structure out of raw transactions. Degenerate
// inputs yield empty results, never errors.
type Service interface {
	Mine(ctx context.Context, txs []transactions.Transaction, params Params) ([]Rule, error)
	FrequentItemSets(ctx context.Context, txs []transactions.Transaction, params Params) ([]ItemSet, error)
	SuggestBundles(rules []Rule, minLift float64, maxBundles int) []Bundle
	BuildNetwork(rules []Rule, txs []transactions.Transaction, topN int) Network
}

type service struct{}

// NewService constructs the market basket engine.
func NewService() Service {
	return &service{}
}

// Mine builds the presence matrix, runs the Apriori search and derives the
// association rules sorted by lift descending.
func (s *service) Mine(ctx context.Context, txs []transactions.Transaction, params Params) ([]Rule, error) {
	params = params.withDefaults()
	m := buildMatrix(txs, params.Level)
	a := mineFrequent(m, params.MinSupport, params.MaxItemsetLen)
	return deriveRules(a, m.items, params.MinConfidence, params.MinLift), nil
}

// FrequentItemSets exposes the raw Apriori output.
func (s *service) FrequentItemSets(ctx context.Context, txs []transactions.Transaction, params Params) ([]ItemSet, error) {
	params = params.withDefaults()
	m := buildMatrix(txs, params.Level)
	a := mineFrequent(m, params.MinSupport, params.MaxItemsetLen)
	return a.itemSets(m.items), nil
}

// SuggestBundles keeps the rules above the lift floor and shapes the top ones
// as merchandising bundles.
func (s *service) SuggestBundles(rules []Rule, minLift float64, maxBundles int) []Bundle {
	if minLift <= 0 {
		minLift = DefaultBundleMinLift
	}
	if maxBundles <= 0 {
		maxBundles = DefaultMaxBundles
	}

	bundles := make([]Bundle, 0)
	for _, rule := range rules {
		if rule.Lift < minLift {
			continue
		}
		antecedent := rule.AntecedentLabel()
		consequent := rule.ConsequentLabel()
		bundles = append(bundles, Bundle{
			BundleName:    fmt.Sprintf("%s + %s", antecedent, consequent),
			Products:      []string{antecedent, consequent},
			AffinityScore: rule.Lift,
			Confidence:    rule.Confidence,
			Support:       rule.Support,
			EstimatedLift: fmt.Sprintf("%.0f%%", (rule.Lift-1)*100),
		})
	}

	// Rules arrive sorted by lift already; the cut keeps the strongest.
	if len(bundles) > maxBundles {
		bundles = bundles[:maxBundles]
	}
	return bundles
}

// BuildNetwork renders the top rules as a product graph. Node size comes from
// transaction counts and color from the product's share of the top revenue.
func (s *service) BuildNetwork(rules []Rule, txs []transactions.Transaction, topN int) Network {
	network := Network{Nodes: []Node{}, Links: []Link{}}
	if len(rules) == 0 {
		return network
	}
	if topN <= 0 {
		topN = DefaultNetworkTopN
	}
	if len(rules) > topN {
		rules = rules[:topN]
	}

	type productStats struct {
		revenue      float64
		transactions int
	}
	stats := map[string]*productStats{}
	var maxRevenue float64
	for _, tx := range txs {
		st, ok := stats[tx.ProductName]
		if !ok {
			st = &productStats{}
			stats[tx.ProductName] = st
		}
		st.revenue += tx.Revenue
		st.transactions++
		if st.revenue > maxRevenue {
			maxRevenue = st.revenue
		}
	}

	seen := map[string]bool{}
	for _, rule := range rules {
		for _, label := range []string{rule.AntecedentLabel(), rule.ConsequentLabel()} {
			if seen[label] {
				continue
			}
			seen[label] = true

			revenue := 0.0
			count := 1
			if st, ok := stats[label]; ok {
				revenue = st.revenue
				count = st.transactions
			}
			network.Nodes = append(network.Nodes, Node{
				ID:       label,
				Label:    label,
				Category: "product",
				Value:    count,
				Color:    colorForValue(revenue, maxRevenue),
			})
		}

		network.Links = append(network.Links, Link{
			Source:     rule.AntecedentLabel(),
			Target:     rule.ConsequentLabel(),
			Strength:   min(rule.Lift/5, 1.0),
			Support:    rule.Support,
			Confidence: rule.Confidence,
			Lift:       rule.Lift,
		})
	}
	return network
}

func colorForValue(value, maxValue float64) string {
	if maxValue == 0 {
		return colorMedium
	}
	percentile := value / maxValue
	switch {
	case percentile > 0.75:
		return colorHigh
	case percentile > 0.5:
		return colorMedium
	case percentile > 0.25:
		return colorLowMedium
	default:
		return colorLow
	}
}
