package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasrivera/shoppulse-backend/api/controllers"
	"github.com/lucasrivera/shoppulse-backend/api/middleware"
	"github.com/lucasrivera/shoppulse-backend/internal/insights"
	"github.com/lucasrivera/shoppulse-backend/internal/personas"
	"github.com/lucasrivera/shoppulse-backend/internal/recommendations"
	"github.com/lucasrivera/shoppulse-backend/internal/segmentation"
	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	"github.com/lucasrivera/shoppulse-backend/pkg/db"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheP redis.Pinger,
	txService transactions.Service,
	insightsService insights.Service,
	segmentationService segmentation.Service,
	personasService personas.Service,
	recommendationsService recommendations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CORS(),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/transactions/import", controllers.ImportTransactions(txService, insightsService, logg))
		r.Get("/uploads", controllers.ListUploads(txService, logg))

		r.Route("/segments", func(r chi.Router) {
			r.Get("/", controllers.Segments(insightsService, logg))
			r.Get("/{segmentID}/customers", controllers.SegmentCustomers(insightsService, segmentationService, logg))
		})

		r.Route("/affinity", func(r chi.Router) {
			r.Get("/rules", controllers.AffinityRules(insightsService, logg))
			r.Get("/bundles", controllers.AffinityBundles(insightsService, logg))
			r.Get("/network", controllers.AffinityNetwork(insightsService, logg))
		})

		r.Route("/sentiment", func(r chi.Router) {
			r.Get("/overview", controllers.SentimentOverview(insightsService, logg))
			r.Get("/by-category", controllers.SentimentByCategory(insightsService, logg))
			r.Get("/by-product", controllers.SentimentByProduct(insightsService, logg))
			r.Get("/trends", controllers.SentimentTrends(insightsService, logg))
			r.Get("/keywords", controllers.SentimentKeywords(insightsService, logg))
		})

		r.Route("/personas", func(r chi.Router) {
			r.Get("/", controllers.Personas(insightsService, logg))
			r.Get("/{segmentID}", controllers.PersonaDetail(insightsService, segmentationService, personasService, logg))
		})

		r.Get("/recommendations", controllers.Recommendations(insightsService, recommendationsService, logg))

		r.Route("/insights", func(r chi.Router) {
			r.Get("/summary", controllers.InsightsSummary(insightsService, logg))
			r.Post("/refresh", controllers.InsightsRefresh(insightsService, logg))
		})
	})

	return r
}
