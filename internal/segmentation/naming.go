package segmentation

import "fmt"

// Recency under this many days marks a cluster as newly acquired.
const newCustomerRecencyDays = 30

// clusterProfile holds one cluster's means compared against the median of
// all cluster means.
type clusterProfile struct {
	recent     bool
	frequent   bool
	highValue  bool
	avgRecency float64
}

type namingRule struct {
	label   string
	matches func(clusterProfile) bool
}

// namingRules is an ordered decision table; the first matching rule wins.
// "Value Seekers" and "New Customers" both require a recent, infrequent
// cluster, so the earlier rule shadows the later one.
var namingRules = []namingRule{
	{"Champions", func(p clusterProfile) bool { return p.recent && p.frequent && p.highValue }},
	{"Loyal Customers", func(p clusterProfile) bool { return p.frequent && !p.highValue }},
	{"Big Spenders", func(p clusterProfile) bool { return !p.frequent && p.highValue }},
	{"At Risk", func(p clusterProfile) bool { return !p.recent }},
	{"Value Seekers", func(p clusterProfile) bool { return p.recent && !p.frequent }},
	{"New Customers", func(p clusterProfile) bool { return p.avgRecency < newCustomerRecencyDays }},
}

func nameForProfile(p clusterProfile, segmentID int) string {
	for _, rule := range namingRules {
		if rule.matches(p) {
			return rule.label
		}
	}
	return fmt.Sprintf("Segment %d", segmentID)
}
