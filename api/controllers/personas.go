package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/pagination"
)

const personaSampleCount = 5

func Personas(service insights.Service, logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, map[string]any{"personas": snapshot.Personas})
	}
}

// PersonaDetail expands one persona with its marketing playbook and a small
// sample of real customers from the underlying segment.
func PersonaDetail(service insights.Service, segments segmentation.Service, personaSvc personas.Service, logg *logger.Logger) http.HandlerFunc {
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

		snapshot, err := service.Snapshot(ctx, scope, insights.Params{})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var persona *personas.Persona
		for i := range snapshot.Personas {
			if snapshot.Personas[i].SegmentID == segmentID {
				persona = &snapshot.Personas[i]
				break
			}
		}
		if persona == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "persona not found"))
			return
		}

		samples, _ := segments.Customers(snapshot.Segmented, segmentID, pagination.Params{Page: 1, Limit: personaSampleCount})
		responses.WriteSuccess(w, personaSvc.Detail(*persona, samples))
	}
}
