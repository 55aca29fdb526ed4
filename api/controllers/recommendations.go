package controllers

import (
	"net/http"

	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/api/validators"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

// Recommendations serves the ranked action list, optionally narrowed by
// category or priority. The summary always reflects the filtered list.
func Recommendations(service insights.Service, recs recommendations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		category, err := validators.ParseQueryEnum(r, "category", "",
			recommendations.CategoryMerchandising,
			recommendations.CategoryMarketing,
			recommendations.CategoryProduct,
			recommendations.CategoryCustomerExperience,
		)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		priority, err := validators.ParseQueryEnum(r, "priority", "",
			string(recommendations.PriorityHigh),
			string(recommendations.PriorityMedium),
			string(recommendations.PriorityLow),
		)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filtered := recs.Filter(snapshot.Recommendations, recommendations.Filter{
			Category: category,
			Priority: recommendations.Priority(priority),
		})

		responses.WriteSuccess(w, map[string]any{
			"recommendations": filtered,
			"summary":         recs.Summarize(filtered),
			"narrative":       snapshot.Narrative,
		})
	}
}
