package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/api/validators"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/pagination"
)

const (
	minClusterCount = 2
	maxClusterCount = 10
)

// Segments returns the behavioral segments for the merchant's scope. Without
// a k parameter the cached snapshot is served; an explicit k recomputes the
// segmentation without touching the cache.
func Segments(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var snapshot *insights.Snapshot
		if strings.TrimSpace(r.URL.Query().Get("k")) == "" {
			snapshot, err = service.Snapshot(ctx, scope, insights.Params{})
		} else {
			var k int
			k, err = validators.ParseQueryInt(r, "k", 0, minClusterCount, maxClusterCount)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			snapshot, err = service.Preview(ctx, scope, insights.Params{ClusterCount: k})
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"segments":       snapshot.Segments,
			"visualization":  snapshot.Visualization,
			"customer_count": snapshot.CustomerCount,
		})
	}
}

// SegmentCustomers pages through the customers assigned to one segment.
func SegmentCustomers(service insights.Service, segments segmentation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		segmentID, err := strconv.Atoi(chi.URLParam(r, "segmentID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "segment id must be numeric").WithDetails(map[string]any{"field": "segmentID"}))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		name, ok := snapshot.SegmentNames[segmentID]
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "segment not found"))
			return
		}

		params := pagination.Params{Page: page, Limit: limit}
		customers, total := segments.Customers(snapshot.Segmented, segmentID, params)

		responses.WriteSuccess(w, map[string]any{
			"segment_id":   segmentID,
			"segment_name": name,
			"customers":    customers,
			"page_info":    params.Describe(total),
		})
	}
}
