package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lucasrivera/shoppulse-backend/api/responses"
	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	"github.com/lucasrivera/shoppulse-backend/pkg/db"
	pkgerrors "github.com/lucasrivera/shoppulse-backend/pkg/errors"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopPulse-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, the cache. The cache
// pinger may be nil; the API degrades to uncached snapshots without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopPulse-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		if err := dbP.Ping(ctx); err != nil {
			logg.Error(ctx, "database readiness check failed", err)
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		if cacheP != nil {
			checks["cache"] = "ok"
			if err := cacheP.Ping(ctx); err != nil {
				logg.Error(ctx, "cache readiness check failed", err)
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
