package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"catalog-recon/internal/config"
	"catalog-recon/internal/middleware"
	recHnd "catalog-recon/internal/reconcile/handler"
	"catalog-recon/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Post("/reconcile", recHnd.Reconcile(cfg, logger))
	r.Post("/supplier/transform", recHnd.TransformSupplier(cfg, logger))

	return r
}
