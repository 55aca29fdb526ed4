package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/google/uuid"
	"github.com/lucasrivera/shoppulse-backend/api/middleware"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/internal/rfm"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	"github.com/lucasrivera/shoppulse-backend/pkg/db/models"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

var testMerchantID = uuid.MustParse("5f2b7d64-9a13-4c86-b2e5-0d3f8a1c6e42")

type stubInsights struct {
	snapshot    *insights.Snapshot
	err         error
	snapshots   int
	previews    int
	generates   int
	invalidated []transactions.Scope
	lastParams  insights.Params
}

func (s *stubInsights) Generate(ctx context.Context, scope transactions.Scope, params insights.Params) (*insights.Snapshot, error) {
	s.generates++
	s.lastParams = params
	return s.snapshot, s.err
}

func (s *stubInsights) Preview(ctx context.Context, scope transactions.Scope, params insights.Params) (*insights.Snapshot, error) {
	s.previews++
	s.lastParams = params
	return s.snapshot, s.err
}

func (s *stubInsights) Cached(ctx context.Context, scope transactions.Scope) (*insights.Snapshot, bool, error) {
	return s.snapshot, s.snapshot != nil, nil
}

func (s *stubInsights) Snapshot(ctx context.Context, scope transactions.Scope, params insights.Params) (*insights.Snapshot, error) {
	s.snapshots++
	s.lastParams = params
	return s.snapshot, s.err
}

func (s *stubInsights) Invalidate(ctx context.Context, scope transactions.Scope) error {
	s.invalidated = append(s.invalidated, scope)
	return nil
}

func (s *stubInsights) Summary(snapshot *insights.Snapshot) insights.SummaryView {
	if snapshot == nil {
		return insights.SummaryView{}
	}
	return insights.SummaryView{
		MerchantID:       snapshot.MerchantID,
		TransactionCount: snapshot.TransactionCount,
		CustomerCount:    snapshot.CustomerCount,
		SegmentCount:     len(snapshot.Segments),
		Narrative:        snapshot.Narrative,
	}
}

type stubTransactions struct {
	imported transactions.ImportBatchInput
	count    int
	err      error
	uploads  []models.Upload
}

func (s *stubTransactions) Fetch(ctx context.Context, scope transactions.Scope) ([]transactions.Transaction, error) {
	return nil, nil
}

func (s *stubTransactions) Count(ctx context.Context, scope transactions.Scope) (int64, error) {
	return 0, nil
}

func (s *stubTransactions) ImportBatch(ctx context.Context, input transactions.ImportBatchInput) (int, error) {
	s.imported = input
	if s.err != nil {
		return 0, s.err
	}
	return s.count, nil
}

func (s *stubTransactions) ListUploads(ctx context.Context, merchantID uuid.UUID) ([]models.Upload, error) {
	return s.uploads, s.err
}

func testSnapshot() *insights.Snapshot {
	segmented := make([]segmentation.SegmentedRecord, 0, 8)
	for i := 0; i < 6; i++ {
		segmented = append(segmented, segmentation.SegmentedRecord{
			Record: rfm.Record{
				CustomerID: string(rune('A' + i)),
				Recency:    5 + i,
				Frequency:  10 - i,
				Monetary:   1200 - float64(i)*100,
				RFMScore:   12 - i,
			},
			SegmentID: 0,
		})
	}
	segmented = append(segmented,
		segmentation.SegmentedRecord{
			Record:    rfm.Record{CustomerID: "X", Recency: 200, Frequency: 1, Monetary: 20, RFMScore: 3},
			SegmentID: 1,
		},
		segmentation.SegmentedRecord{
			Record:    rfm.Record{CustomerID: "Y", Recency: 210, Frequency: 1, Monetary: 15, RFMScore: 3},
			SegmentID: 1,
		},
	)

	return &insights.Snapshot{
		MerchantID:       testMerchantID.String(),
		GeneratedAt:      time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		TransactionCount: 40,
		CustomerCount:    8,
		Segmented:        segmented,
		SegmentNames:     map[int]string{0: "Champions", 1: "At Risk"},
		Segments: []segmentation.Segment{
			{SegmentID: 0, SegmentName: "Champions", CustomerCount: 6, TotalRevenue: 5400},
			{SegmentID: 1, SegmentName: "At Risk", CustomerCount: 2, TotalRevenue: 35},
		},
		Sentiment: insights.SentimentReport{
			Overview: sentiment.Overview{OverallScore: 72, TotalReviews: 40},
			ByProduct: []sentiment.ProductSentiment{
				{ProductName: "Laptop", SentimentScore: 80, ReviewCount: 20},
				{ProductName: "Laptop Bag", SentimentScore: 90, ReviewCount: 12},
				{ProductName: "Notebook", SentimentScore: 40, ReviewCount: 8},
			},
		},
		Personas: []personas.Persona{
			{PersonaID: 1, Name: "Victoria the VIP", SegmentID: 0},
			{PersonaID: 2, Name: "Rachel the Returner", SegmentID: 1},
		},
		Recommendations: []recommendations.Recommendation{
			{ID: "MERCH-001", Category: recommendations.CategoryMerchandising, Priority: recommendations.PriorityHigh, Rank: 1},
			{ID: "MKT-001", Category: recommendations.CategoryMarketing, Priority: recommendations.PriorityHigh, Rank: 2},
			{ID: "MKT-003", Category: recommendations.CategoryMarketing, Priority: recommendations.PriorityMedium, Rank: 3},
		},
		Narrative: "3 recommendations were generated, 2 of them high priority.",
	}
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.WithMerchantID(req.Context(), testMerchantID.String())
	return req.WithContext(ctx)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}
