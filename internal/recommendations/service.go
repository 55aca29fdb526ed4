package recommendations

import (
	"context"
	"sort"

	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

// Service composes ranked recommendations from the upstream analyses.
type Service interface {
	Compose(ctx context.Context, in Inputs) []Recommendation
	Filter(recs []Recommendation, filter Filter) []Recommendation
	Summarize(recs []Recommendation) Summary
	Narrate(ctx context.Context, recs []Recommendation) string
}

type service struct {
	augmenter Augmenter
	log       *logger.Logger
}

// NewService builds the recommendation composer. The augmenter is optional;
// without it Narrate always uses the generated template.
func NewService(augmenter Augmenter, log *logger.Logger) Service {
	if log == nil {
		log = logger.New(logger.Options{ServiceName: "recommendations"})
	}
	return &service{
		augmenter: augmenter,
		log:       log,
	}
}

var priorityOrder = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Compose runs every generator, sorts by priority and assigns contiguous
// 1-based ranks. Generators that find no signal contribute nothing.
func (s *service) Compose(ctx context.Context, in Inputs) []Recommendation {
	recs := make([]Recommendation, 0, 8)
	recs = append(recs, merchandising(in)...)
	recs = append(recs, marketing(in)...)
	recs = append(recs, sentimentDriven(in)...)
	recs = append(recs, productExpansion(in)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank(recs[i].Priority) < priorityRank(recs[j].Priority)
	})
	for i := range recs {
		recs[i].Rank = i + 1
	}

	s.log.Debug(s.log.WithField(ctx, "recommendation_count", len(recs)), "composed recommendations")
	return recs
}

// Filter keeps recommendations matching the non-zero filter fields. Ranks
// are preserved, not reassigned.
func (s *service) Filter(recs []Recommendation, filter Filter) []Recommendation {
	kept := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && rec.Priority != filter.Priority {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// Summarize counts the list by priority, category and timeline.
func (s *service) Summarize(recs []Recommendation) Summary {
	summary := Summary{
		Total:      len(recs),
		ByCategory: make(map[string]int),
		ByTimeline: make(map[string]int),
	}
	for _, rec := range recs {
		switch rec.Priority {
		case PriorityHigh:
			summary.HighPriority++
		case PriorityMedium:
			summary.MediumPriority++
		case PriorityLow:
			summary.LowPriority++
		}
		summary.ByCategory[rec.Category]++
		summary.ByTimeline[rec.Timeline]++
	}
	return summary
}

// Narrate returns a prose summary of the list. Augmenter failures are
// logged and replaced with the deterministic template; they never surface.
func (s *service) Narrate(ctx context.Context, recs []Recommendation) string {
	if s.augmenter == nil || len(recs) == 0 {
		return templateNarrative(recs)
	}

	narrative, err := s.augmenter.Narrate(ctx, recs)
	if err != nil {
		s.log.Warn(s.log.WithField(ctx, "augment_error", err.Error()), "narrative augmentation failed, using template")
		return templateNarrative(recs)
	}
	return narrative
}

func priorityRank(p Priority) int {
	if rank, ok := priorityOrder[p]; ok {
		return rank
	}
	return priorityOrder[PriorityLow]
}
