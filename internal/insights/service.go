package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lucasrivera/shoppulse-backend/internal/basket"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/internal/rfm"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/metrics"
	"github.com/lucasrivera/shoppulse-backend/pkg/redis"
)

// Pipeline stage labels used for logging and metrics.
const (
	StageFetch           = "fetch"
	StageRFM             = "rfm"
	StageSegmentation    = "segmentation"
	StageBasket          = "basket"
	StageSentiment       = "sentiment"
	StagePersonas        = "personas"
	StageRecommendations = "recommendations"
)

// snapshotProductCap bounds how many per-product sentiment rows a snapshot
// retains; endpoints slice their own top-N out of this list.
const snapshotProductCap = 100

// Service orchestrates the full analysis pipeline for one scope.
type Service interface {
	Generate(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error)
	Preview(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error)
	Cached(ctx context.Context, scope transactions.Scope) (*Snapshot, bool, error)
	Snapshot(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error)
	Invalidate(ctx context.Context, scope transactions.Scope) error
	Summary(snapshot *Snapshot) SummaryView
}

// Deps wires the pipeline stages and supporting infrastructure. Cache and
// Metrics are optional; everything else is required.
type Deps struct {
	Transactions    transactions.Service
	RFM             rfm.Service
	Segmentation    segmentation.Service
	Basket          basket.Service
	Sentiment       sentiment.Service
	Personas        personas.Service
	Recommendations recommendations.Service
	Cache           *redis.Client
	Metrics         *metrics.PipelineMetrics
	Log             *logger.Logger
	Pipeline        config.PipelineConfig
	SnapshotTTL     time.Duration
}

type service struct {
	deps Deps
}

// NewService constructs the pipeline orchestrator.
func NewService(deps Deps) (Service, error) {
	if deps.Transactions == nil {
		return nil, errors.New("transactions service is required")
	}
	if deps.RFM == nil {
		return nil, errors.New("rfm service is required")
	}
	if deps.Segmentation == nil {
		return nil, errors.New("segmentation service is required")
	}
	if deps.Basket == nil {
		return nil, errors.New("basket service is required")
	}
	if deps.Sentiment == nil {
		return nil, errors.New("sentiment service is required")
	}
	if deps.Personas == nil {
		return nil, errors.New("personas service is required")
	}
	if deps.Recommendations == nil {
		return nil, errors.New("recommendations service is required")
	}
	if deps.Log == nil {
		return nil, errors.New("logger is required")
	}
	return &service{deps: deps}, nil
}

// Generate runs every stage for the scope and assembles a snapshot. The
// cache is not consulted; the fresh snapshot is written through when a
// cache is configured.
func (s *service) Generate(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error) {
	snapshot, err := s.run(ctx, scope, params)
	if err != nil {
		return nil, err
	}

	s.store(ctx, scope, snapshot)
	s.deps.Log.Info(s.deps.Log.WithFields(ctx, map[string]any{
		"transaction_count": snapshot.TransactionCount,
		"customer_count":    snapshot.CustomerCount,
		"segment_count":     len(snapshot.Segments),
	}), "insights snapshot generated")
	return snapshot, nil
}

// Preview runs the pipeline with the given parameters without reading or
// writing the cache.
func (s *service) Preview(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error) {
	return s.run(ctx, scope, params)
}

func (s *service) run(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error) {
	params = s.withDefaults(params)
	ctx = s.deps.Log.WithMerchantID(ctx, scope.MerchantID.String())

	var txs []transactions.Transaction
	err := s.timed(StageFetch, func() error {
		var stageErr error
		txs, stageErr = s.deps.Transactions.Fetch(ctx, scope)
		return stageErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	var records []rfm.Record
	err = s.timed(StageRFM, func() error {
		var stageErr error
		records, stageErr = s.deps.RFM.Compute(ctx, txs, params.Now)
		return stageErr
	})
	if err != nil {
		return nil, err
	}

	k := params.ClusterCount
	if k > len(records) {
		k = len(records)
	}

	var (
		segmented []segmentation.SegmentedRecord
		names     map[int]string
	)
	err = s.timed(StageSegmentation, func() error {
		var stageErr error
		segmented, names, stageErr = s.deps.Segmentation.Segment(ctx, records, k)
		return stageErr
	})
	if err != nil {
		return nil, err
	}
	segments := s.deps.Segmentation.Summary(segmented, names)
	visualization := s.deps.Segmentation.Visualization(segmented, names)

	var (
		rules    []basket.Rule
		itemSets []basket.ItemSet
	)
	err = s.timed(StageBasket, func() error {
		var stageErr error
		rules, stageErr = s.deps.Basket.Mine(ctx, txs, params.Basket)
		if stageErr != nil {
			return stageErr
		}
		itemSets, stageErr = s.deps.Basket.FrequentItemSets(ctx, txs, params.Basket)
		return stageErr
	})
	if err != nil {
		return nil, err
	}
	bundles := s.deps.Basket.SuggestBundles(rules, s.deps.Pipeline.BundleMinLift, basket.DefaultMaxBundles)
	network := s.deps.Basket.BuildNetwork(rules, txs, basket.DefaultNetworkTopN)

	var report SentimentReport
	_ = s.timed(StageSentiment, func() error {
		scored := s.deps.Sentiment.Score(ctx, txs)
		report = SentimentReport{
			Overview:   s.deps.Sentiment.Overview(scored),
			ByCategory: s.deps.Sentiment.ByCategory(scored),
			ByProduct:  s.deps.Sentiment.ByProduct(scored, snapshotProductCap, sentiment.SortByReviewCount),
			Trends:     s.deps.Sentiment.Trends(scored),
			Keywords:   s.deps.Sentiment.Keywords(ctx, txs),
			Gauge:      s.deps.Sentiment.Gauge(scored),
		}
		return nil
	})

	var personaList []personas.Persona
	_ = s.timed(StagePersonas, func() error {
		personaList = s.deps.Personas.Build(ctx, segmented, names, txs)
		return nil
	})

	var (
		recs      []recommendations.Recommendation
		narrative string
	)
	_ = s.timed(StageRecommendations, func() error {
		recs = s.deps.Recommendations.Compose(ctx, recommendations.Inputs{
			Segments:   segments,
			Rules:      rules,
			Bundles:    bundles,
			Overview:   report.Overview,
			Categories: report.ByCategory,
		})
		narrative = s.deps.Recommendations.Narrate(ctx, recs)
		return nil
	})

	snapshot := &Snapshot{
		MerchantID:       scope.MerchantID.String(),
		UploadID:         uploadIDString(scope),
		GeneratedAt:      params.Now.UTC(),
		TransactionCount: len(txs),
		CustomerCount:    len(records),
		Segmented:        segmented,
		SegmentNames:     names,
		Segments:         segments,
		Visualization:    visualization,
		Rules:            rules,
		ItemSets:         itemSets,
		Bundles:          bundles,
		Network:          network,
		Sentiment:        report,
		Personas:         personaList,
		Recommendations:  recs,
		Narrative:        narrative,
	}

	return snapshot, nil
}

// Cached returns the stored snapshot for the scope, if any.
func (s *service) Cached(ctx context.Context, scope transactions.Scope) (*Snapshot, bool, error) {
	if s.deps.Cache == nil {
		return nil, false, nil
	}

	raw, err := s.deps.Cache.Get(ctx, s.snapshotKey(scope))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.deps.Log.Warn(ctx, "discarding unreadable snapshot")
		_ = s.deps.Cache.Del(ctx, s.snapshotKey(scope))
		return nil, false, nil
	}
	return &snapshot, true, nil
}

// Snapshot returns the cached result or generates and stores a fresh one.
func (s *service) Snapshot(ctx context.Context, scope transactions.Scope, params Params) (*Snapshot, error) {
	cached, ok, err := s.Cached(ctx, scope)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}
	return s.Generate(ctx, scope, params)
}

// Invalidate drops the cached snapshot for the scope.
func (s *service) Invalidate(ctx context.Context, scope transactions.Scope) error {
	if s.deps.Cache == nil {
		return nil
	}
	return s.deps.Cache.Del(ctx, s.snapshotKey(scope))
}

// Summary condenses a snapshot into the dashboard header view.
func (s *service) Summary(snapshot *Snapshot) SummaryView {
	if snapshot == nil {
		return SummaryView{}
	}

	view := SummaryView{
		MerchantID:       snapshot.MerchantID,
		UploadID:         snapshot.UploadID,
		GeneratedAt:      snapshot.GeneratedAt,
		TransactionCount: snapshot.TransactionCount,
		CustomerCount:    snapshot.CustomerCount,
		SegmentCount:     len(snapshot.Segments),
		OverallSentiment: snapshot.Sentiment.Overview.OverallScore,
		Recommendations:  s.deps.Recommendations.Summarize(snapshot.Recommendations),
		Narrative:        snapshot.Narrative,
	}
	if len(snapshot.Segments) > 0 {
		view.TopSegment = snapshot.Segments[0].SegmentName
	}
	return view
}

func (s *service) withDefaults(params Params) Params {
	if params.ClusterCount <= 0 {
		params.ClusterCount = s.deps.Pipeline.ClusterCount
	}
	if params.Basket.MinSupport <= 0 {
		params.Basket.MinSupport = s.deps.Pipeline.MinSupport
	}
	if params.Basket.MinConfidence <= 0 {
		params.Basket.MinConfidence = s.deps.Pipeline.MinConfidence
	}
	if params.Basket.MinLift <= 0 {
		params.Basket.MinLift = s.deps.Pipeline.MinLift
	}
	if params.Basket.MaxItemsetLen <= 0 {
		params.Basket.MaxItemsetLen = s.deps.Pipeline.MaxItemsetLen
	}
	if params.Now.IsZero() {
		params.Now = time.Now().UTC()
	}
	return params
}

func (s *service) store(ctx context.Context, scope transactions.Scope, snapshot *Snapshot) {
	if s.deps.Cache == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.deps.Log.Error(ctx, "marshal snapshot", err)
		return
	}
	if err := s.deps.Cache.Set(ctx, s.snapshotKey(scope), data, s.deps.SnapshotTTL); err != nil {
		s.deps.Log.Error(ctx, "store snapshot", err)
	}
}

func (s *service) snapshotKey(scope transactions.Scope) string {
	return s.deps.Cache.SnapshotKey(scope.MerchantID.String(), uploadIDString(scope))
}

func (s *service) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveDuration(stage, time.Since(start))
		if err != nil {
			s.deps.Metrics.IncFailure(stage)
		} else {
			s.deps.Metrics.IncSuccess(stage)
		}
	}
	return err
}

func uploadIDString(scope transactions.Scope) string {
	if scope.All() {
		return ""
	}
	return scope.UploadID.String()
}
