package controllers

import (
	"net/http"
	"sort"

	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/api/validators"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/sentiment"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

const (
	defaultProductTopN = 10
	maxProductTopN     = 100
)

func SentimentOverview(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"overview": snapshot.Sentiment.Overview,
			"gauge":    snapshot.Sentiment.Gauge,
		})
	}
}

func SentimentByCategory(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": snapshot.Sentiment.ByCategory})
	}
}

// SentimentByProduct slices the requested top-N out of the snapshot's
// per-product list, reordered by the requested sort key.
func SentimentByProduct(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		topN, err := validators.ParseQueryInt(r, "top_n", defaultProductTopN, 1, maxProductTopN)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sortBy, err := validators.ParseQueryEnum(r, "sort_by", sentiment.SortByReviewCount, sentiment.SortByReviewCount, sentiment.SortByScore)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products := make([]sentiment.ProductSentiment, len(snapshot.Sentiment.ByProduct))
		copy(products, snapshot.Sentiment.ByProduct)
		if sortBy == sentiment.SortByScore {
			sort.SliceStable(products, func(i, j int) bool {
				return products[i].SentimentScore > products[j].SentimentScore
			})
		}
		if topN < len(products) {
			products = products[:topN]
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

func SentimentTrends(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"trends": snapshot.Sentiment.Trends})
	}
}

func SentimentKeywords(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot.Sentiment.Keywords)
	}
}
