package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"smallbiz-billing/internal/usecase"
)

type Server struct {
	billingUC  usecase.BillingUseCase
	statsUC    usecase.StatsUseCase
	insightsUC usecase.InsightsUseCase

	auth           *AuthManager
	paystackSecret string
	dashboardURL   string
	pricingURL     string
	log            *zerolog.Logger
}

func NewServer(
	billingUC usecase.BillingUseCase,
	statsUC usecase.StatsUseCase,
	insightsUC usecase.InsightsUseCase,
	auth *AuthManager,
	paystackSecret string,
	baseURL string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		billingUC:      billingUC,
		statsUC:        statsUC,
		insightsUC:     insightsUC,
		auth:           auth,
		paystackSecret: paystackSecret,
		dashboardURL:   baseURL + "/dashboard",
		pricingURL:     baseURL + "/pricing",
		log:            logger,
	}
}

// Router builds the full route tree with the guard chain applied to every
// request and auth applied per group.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	guard := func(h http.Handler) http.Handler {
		return Chain(h, TraceID(), RequestLog(s.log), Recover(s.log), Timeout(30*time.Second))
	}
	r.Use(guard)

	r.Get("/health", healthHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			// Public: the redirect arrives unauthenticated and the webhook is
			// authenticated by its signature, not a session.
			r.Get("/verify", s.verifyHandler())
			r.Post("/webhook", s.webhookHandler())

			r.Group(func(r chi.Router) {
				r.Use(s.auth.RequireUser())
				r.Post("/initiate", s.initiateHandler())
				r.Post("/recheck", s.recheckHandler())
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.auth.RequireAdmin())
			r.Post("/verify-payment", s.adminVerifyHandler())
			r.Post("/sync-paid-to-pro", s.adminSyncHandler())
			r.Get("/stats", s.adminStatsHandler())
		})

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireUser())
			r.Post("/ai/insights", s.insightsHandler())
		})
	})

	return r
}
