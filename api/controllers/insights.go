package controllers

import (
	"net/http"

	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

func InsightsSummary(service insights.Service, logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, service.Summary(snapshot))
	}
}

// InsightsRefresh drops the cached snapshot for the scope and recomputes it.
func InsightsRefresh(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := service.Invalidate(ctx, scope); err != nil {
			logg.Warn(logg.WithField(ctx, "merchant_id", scope.MerchantID.String()), "snapshot invalidation failed")
		}

		snapshot, err := service.Generate(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, service.Summary(snapshot))
	}
}
