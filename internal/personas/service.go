package personas

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
)

// Defaults used when no demographic data is joinable.
const (
	defaultAge                 = 35.0
	defaultPayment             = "Credit Card"
	defaultShipping            = "Standard"
	defaultDiscountSensitivity = 0.5
)

// Service turns segments into display personas.
type Service interface {
	Build(ctx context.Context, segmented []segmentation.SegmentedRecord, names map[int]string, demographics []transactions.Transaction) []Persona
	Detail(persona Persona, samples []segmentation.SegmentCustomer) Detail
}

type service struct {
	seed int64
}

// NewService constructs the persona synthesizer. The seed fixes name picks
// so identical input yields identical personas.
func NewService(seed int64) Service {
	return &service{seed: seed}
}

// Build creates one persona per segment, sorted by total revenue descending.
// Segments are processed in ascending id order so the seeded name draws are
// reproducible.
func (s *service) Build(ctx context.Context, segmented []segmentation.SegmentedRecord, names map[int]string, demographics []transactions.Transaction) []Persona {
	members := map[int][]segmentation.SegmentedRecord{}
	for _, rec := range segmented {
		members[rec.SegmentID] = append(members[rec.SegmentID], rec)
	}

	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	rng := rand.New(rand.NewSource(s.seed))

	out := make([]Persona, 0, len(ids))
	for _, id := range ids {
		rows := members[id]
		name := names[id]
		out = append(out, s.create(id, name, rows, demographics, rng))
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Behavior.TotalRevenue > out[b].Behavior.TotalRevenue
	})
	return out
}

func (s *service) create(segmentID int, segmentName string, rows []segmentation.SegmentedRecord, demographics []transactions.Transaction, rng *rand.Rand) Persona {
	pool, ok := nameTemplates[segmentName]
	if !ok {
		pool = fallbackNames
	}
	name := pool[rng.Intn(len(pool))]

	memberIDs := map[string]bool{}
	var sumFrequency, sumMonetary, sumRecency, sumRFM float64
	for _, rec := range rows {
		memberIDs[rec.CustomerID] = true
		sumFrequency += float64(rec.Frequency)
		sumMonetary += rec.Monetary
		sumRecency += float64(rec.Recency)
		sumRFM += float64(rec.RFMScore)
	}

	var demo []transactions.Transaction
	for _, tx := range demographics {
		if memberIDs[tx.CustomerID] {
			demo = append(demo, tx)
		}
	}

	avgAge := averageAge(demo)
	avgFrequency := 1.0
	avgMonetary := 100.0
	avgRecency := 30.0
	avgRFM := 300.0
	if n := float64(len(rows)); n > 0 {
		avgFrequency = sumFrequency / n
		avgMonetary = sumMonetary / n
		avgRecency = sumRecency / n
		avgRFM = sumRFM / n
	}
	avgOrderValue := avgMonetary
	if avgFrequency > 0 {
		avgOrderValue = avgMonetary / avgFrequency
	}

	return Persona{
		PersonaID:      segmentID,
		Name:           name,
		Role:           segmentName,
		AvatarInitials: initials(name),
		Description:    describe(segmentName, avgAge, avgOrderValue, len(rows)),
		Color:          personaColors[segmentID%len(personaColors)],
		Demographics: Demographics{
			AgeRange:     ageRange(avgAge),
			GenderSplit:  valueCounts(demo, func(tx transactions.Transaction) string { return tx.Gender }, 0),
			TopLocations: valueCounts(demo, func(tx transactions.Transaction) string { return tx.Location }, 3),
		},
		Behavior: Behavior{
			AvgOrderValue:     round2(avgOrderValue),
			PurchaseFrequency: frequencyLabel(avgFrequency),
			TotalCustomers:    len(rows),
			TotalRevenue:      round2(sumMonetary),
			AvgRecency:        round1(avgRecency),
			AvgRFMScore:       math.Round(avgRFM),
		},
		Preferences: Preferences{
			PreferredPayment:    mode(demo, func(tx transactions.Transaction) string { return tx.PaymentMethod }, defaultPayment),
			PreferredShipping:   mode(demo, func(tx transactions.Transaction) string { return tx.ShippingType }, defaultShipping),
			DiscountSensitivity: round2(discountSensitivity(demo)),
		},
		SegmentID: segmentID,
	}
}

// Detail attaches the marketing playbook and up to five sample customers.
func (s *service) Detail(persona Persona, samples []segmentation.SegmentCustomer) Detail {
	playbook, ok := marketingPlaybooks[persona.Role]
	if !ok {
		playbook = fallbackPlaybook
	}
	if len(samples) > 5 {
		samples = samples[:5]
	}
	return Detail{
		Persona:                  persona,
		MarketingRecommendations: playbook,
		SampleCustomers:          samples,
	}
}

func frequencyLabel(avgFrequency float64) string {
	switch {
	case avgFrequency >= 10:
		return "Very Frequent"
	case avgFrequency >= 5:
		return "Frequent"
	case avgFrequency >= 2:
		return "Regular"
	case avgFrequency >= 1:
		return "Occasional"
	default:
		return "Rare"
	}
}

func ageRange(avgAge float64) string {
	low := int(math.Max(18, avgAge-5))
	high := int(math.Min(80, avgAge+5))
	return fmt.Sprintf("%d-%d", low, high)
}

func averageAge(demo []transactions.Transaction) float64 {
	var sum float64
	var count int
	for _, tx := range demo {
		if tx.Age > 0 {
			sum += float64(tx.Age)
			count++
		}
	}
	if count == 0 {
		return defaultAge
	}
	return sum / float64(count)
}

// valueCounts tallies non-empty values; topN > 0 keeps the most common ones.
func valueCounts(demo []transactions.Transaction, field func(transactions.Transaction) string, topN int) map[string]int {
	counts := map[string]int{}
	for _, tx := range demo {
		if v := strings.TrimSpace(field(tx)); v != "" {
			counts[v]++
		}
	}
	if topN <= 0 || len(counts) <= topN {
		return counts
	}

	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].value < pairs[j].value
	})

	top := map[string]int{}
	for _, p := range pairs[:topN] {
		top[p.value] = p.count
	}
	return top
}

// mode returns the most common non-empty value, ties broken alphabetically.
func mode(demo []transactions.Transaction, field func(transactions.Transaction) string, fallback string) string {
	counts := map[string]int{}
	for _, tx := range demo {
		if v := strings.TrimSpace(field(tx)); v != "" {
			counts[v]++
		}
	}
	best := fallback
	bestCount := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

func discountSensitivity(demo []transactions.Transaction) float64 {
	if len(demo) == 0 {
		return defaultDiscountSensitivity
	}
	var discounted int
	for _, tx := range demo {
		if tx.DiscountApplied {
			discounted++
		}
	}
	return float64(discounted) / float64(len(demo))
}

func initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteByte(part[0])
	}
	return sb.String()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
