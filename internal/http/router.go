package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"mining-engine/backend-go/internal/config"
	"mining-engine/backend-go/internal/handlers"
	"mining-engine/backend-go/internal/services"
)

func NewRouter(cfg config.Config, logger *zap.Logger, live *services.LiveService) http.Handler {
	api := handlers.New(cfg, live)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/presets", api.Presets)
	mux.HandleFunc("/v1/assumptions", api.Assumptions)
	mux.HandleFunc("/v1/miners", api.Miners)
	mux.HandleFunc("/v1/calculate", api.Calculate)
	mux.HandleFunc("/v1/live", api.Live)
	mux.HandleFunc("/health", api.Health)
	mux.Handle("/metrics", promhttp.Handler())

	h := http.Handler(mux)
	h = withRecovery(h, logger)
	h = withLogging(h, logger)
	h = withMetrics(h)
	h = withRateLimit(cfg.RateLimitPerMin)(h)
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(h)
	return h
}
