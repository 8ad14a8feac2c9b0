package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"owners-health-api/internal/handler"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/middleware"
)

// Config holds the configuration for creating a router.
type Config struct {
	Logger            logrus.FieldLogger
	APIKeys           []string
	CORSOrigins       []string
	Handler           *handler.Handler
	EntityHandler     *handler.EntityHandler
	DashboardHandler  *handler.DashboardHandler
	TaskHandler       *handler.TaskHandler
	ItemHandler       *handler.ItemHandler
	SyncHandler       *handler.SyncHandler
	GenerationHandler *handler.GenerationHandler
	AdminHandler      *handler.AdminHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key", "X-Operator-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// PUBLIC routes (no auth required)
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	// External agents report results here. The challenge token is the
	// credential, so these sit outside the API key group.
	if cfg.SyncHandler != nil {
		r.Route("/callbacks", func(r chi.Router) {
			r.Get("/review-sync", cfg.SyncHandler.ReviewCallback)
			r.Post("/review-sync", cfg.SyncHandler.ReviewCallback)
			r.Get("/price-sync", cfg.SyncHandler.PriceCallback)
			r.Post("/price-sync", cfg.SyncHandler.PriceCallback)
			r.Get("/scan", cfg.SyncHandler.ScanCallback)
			r.Post("/scan", cfg.SyncHandler.ScanCallback)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		// AUTHENTICATED routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKey(cfg.APIKeys))

			if cfg.AdminHandler != nil {
				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", cfg.AdminHandler.GetStats)
					r.Post("/retention/run", cfg.AdminHandler.RunRetention)
					r.Delete("/cache", cfg.AdminHandler.PurgeCache)
				})
			}

			if cfg.DashboardHandler != nil {
				r.Get("/profiles", cfg.DashboardHandler.Profile)
			}
			if cfg.GenerationHandler != nil {
				r.Get("/features", cfg.GenerationHandler.Features)
			}

			// Operator-scoped routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Operator)

				if cfg.EntityHandler == nil {
					return
				}

				r.Route("/entities", func(r chi.Router) {
					r.Get("/", cfg.EntityHandler.List)
					r.Post("/", cfg.EntityHandler.Create)

					r.Route("/{entityID}", func(r chi.Router) {
						r.Get("/", cfg.EntityHandler.Get)
						r.Put("/", cfg.EntityHandler.Update)

						r.Get("/checklist", cfg.EntityHandler.Checklist)
						r.Post("/checklist/activity", cfg.EntityHandler.TouchActivity)
						r.Patch("/checklist/flags", cfg.EntityHandler.SetFlags)

						if cfg.DashboardHandler != nil {
							r.Get("/dashboard", cfg.DashboardHandler.Get)
						}
						if cfg.TaskHandler != nil {
							r.Post("/tasks/events", cfg.TaskHandler.Record)
						}
						if cfg.GenerationHandler != nil {
							r.Post("/generate", cfg.GenerationHandler.Generate)
							r.Get("/history", cfg.GenerationHandler.History)
						}
						if cfg.SyncHandler != nil {
							r.Post("/sync/review", cfg.SyncHandler.IssueReview)
							r.Delete("/sync/review", cfg.SyncHandler.CancelReview)
							r.Post("/sync/scan", cfg.SyncHandler.IssueScan)
							r.Delete("/sync/scan", cfg.SyncHandler.CancelScan)
						}
						if cfg.ItemHandler != nil {
							r.Route("/items", func(r chi.Router) {
								r.Get("/", cfg.ItemHandler.List)
								r.Post("/", cfg.ItemHandler.Create)
								r.Get("/{itemID}", cfg.ItemHandler.Get)
								r.Put("/{itemID}", cfg.ItemHandler.Update)
								r.Delete("/{itemID}", cfg.ItemHandler.Delete)
								if cfg.SyncHandler != nil {
									r.Post("/{itemID}/sync", cfg.SyncHandler.IssuePrice)
									r.Delete("/{itemID}/sync", cfg.SyncHandler.CancelPrice)
								}
							})
						}
					})
				})
			})
		})
	})

	return r
}
