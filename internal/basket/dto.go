package basket

import "strings"

// Level selects the item granularity for the basket matrix.
type Level string

const (
	LevelProduct  Level = "product"
	LevelCategory Level = "category"
)

// Params bundles the mining thresholds. Zero values are replaced by the
// documented defaults.
type Params struct {
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
	MaxItemsetLen int
	Level         Level
}

const (
	DefaultMinSupport    = 0.05
	DefaultMinConfidence = 0.3
	DefaultMinLift       = 1.5
	DefaultMaxItemsetLen = 2
	DefaultBundleMinLift = 2.0
	DefaultMaxBundles    = 10
	DefaultNetworkTopN   = 50
)

func (p Params) withDefaults() Params {
	if p.MinSupport <= 0 {
		p.MinSupport = DefaultMinSupport
	}
	if p.MinConfidence <= 0 {
		p.MinConfidence = DefaultMinConfidence
	}
	if p.MinLift <= 0 {
		p.MinLift = DefaultMinLift
	}
	if p.MaxItemsetLen <= 0 {
		p.MaxItemsetLen = DefaultMaxItemsetLen
	}
	if p.Level == "" {
		p.Level = LevelProduct
	}
	return p
}

// ItemSet is a frequent item combination with its support.
type ItemSet struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
}

// Rule is a directed association between two disjoint item sets.
type Rule struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// AntecedentLabel joins the antecedent items for display.
func (r Rule) AntecedentLabel() string {
	return strings.Join(r.Antecedent, ", ")
}

// ConsequentLabel joins the consequent items for display.
func (r Rule) ConsequentLabel() string {
	return strings.Join(r.Consequent, ", ")
}

// Bundle is a merchandising suggestion derived from a high-lift rule.
type Bundle struct {
	BundleName    string   `json:"bundle_name"`
	Products      []string `json:"products"`
	AffinityScore float64  `json:"affinity_score"`
	Confidence    float64  `json:"confidence"`
	Support       float64  `json:"support"`
	EstimatedLift string   `json:"estimated_lift"`
}

// Node is one product in the affinity network.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Value    int    `json:"value"`
	Color    string `json:"color"`
}

// Link is one rule rendered as a directed edge.
type Link struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Strength   float64 `json:"strength"`
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
	Lift       float64 `json:"lift"`
}

// Network is the graph view of the top association rules.
type Network struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}
