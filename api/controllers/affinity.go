package controllers

import (
	"net/http"
	"strings"

	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/api/validators"
	"github.com/lucasrivera/shoppulse-backend/internal/basket"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
)

// miningParamKeys are the query parameters that trigger an on-demand mining
// run instead of the cached snapshot.
var miningParamKeys = []string{"min_support", "min_confidence", "min_lift", "level"}

func hasMiningParams(r *http.Request) bool {
	for _, key := range miningParamKeys {
		if strings.TrimSpace(r.URL.Query().Get(key)) != "" {
			return true
		}
	}
	return false
}

func parseMiningParams(r *http.Request) (basket.Params, error) {
	var params basket.Params
	var err error

	params.MinSupport, err = validators.ParseQueryFloat(r, "min_support", basket.DefaultMinSupport, 0.001, 1)
	if err != nil {
		return basket.Params{}, err
	}
	params.MinConfidence, err = validators.ParseQueryFloat(r, "min_confidence", basket.DefaultMinConfidence, 0.001, 1)
	if err != nil {
		return basket.Params{}, err
	}
	params.MinLift, err = validators.ParseQueryFloat(r, "min_lift", basket.DefaultMinLift, 0, 100)
	if err != nil {
		return basket.Params{}, err
	}
	level, err := validators.ParseQueryEnum(r, "level", string(basket.LevelProduct), string(basket.LevelProduct), string(basket.LevelCategory))
	if err != nil {
		return basket.Params{}, err
	}
	params.Level = basket.Level(level)
	return params, nil
}

// AffinityRules returns association rules and frequent item sets. Custom
// thresholds recompute on demand; defaults serve the snapshot.
func AffinityRules(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var snapshot *insights.Snapshot
		if hasMiningParams(r) {
			var params basket.Params
			params, err = parseMiningParams(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			snapshot, err = service.Preview(ctx, scope, insights.Params{Basket: params})
		} else {
			snapshot, err = service.Snapshot(ctx, scope, insights.Params{})
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"rules":     snapshot.Rules,
			"item_sets": snapshot.ItemSets,
		})
	}
}

func AffinityBundles(service insights.Service, logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, map[string]any{"bundles": snapshot.Bundles})
	}
}

func AffinityNetwork(service insights.Service, logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, snapshot.Network)
	}
}
