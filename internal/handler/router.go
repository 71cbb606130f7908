package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dangerclosesec/greenhug/internal/auth"
	"github.com/dangerclosesec/greenhug/internal/metrics"
	"github.com/dangerclosesec/greenhug/internal/middleware"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth    *AuthHandler
	Company *CompanyHandler
	Project *ProjectHandler
	Impact  *ImpactHandler
	Ranking *RankingHandler
	User    *UserHandler
}

type RouterConfig struct {
	TokenManager   *auth.TokenManager
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	// Metrics is optional. When set, requests are counted and MetricsPath
	// serves the registry.
	Metrics     *metrics.Metrics
	MetricsPath string
}

// NewRouter builds the API routes. Reads are public; writes need an ADMIN
// token and user management a SUPER_ADMIN one.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, cfg.Metrics.Handler())
	}

	requireAdmin := middleware.RequireRole(model.RoleAdmin)
	requireSuperAdmin := middleware.RequireRole(model.RoleSuperAdmin)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(chimw.AllowContentType("application/json")).Post("/login", h.Auth.LoginHandler)
			r.Get("/verify", h.Auth.VerifyHandler)
		})

		// Public reads
		r.Get("/companies", h.Company.List)
		r.Get("/companies/{id}", h.Company.Get)
		r.Get("/companies/{id}/projects", h.Company.ListProjects)
		r.Get("/projects/{id}", h.Project.Get)
		r.Get("/impact/{companyID}", h.Impact.Get)
		r.Get("/impact/{companyID}/summary", h.Impact.Summary)

		r.Route("/ranking", func(r chi.Router) {
			r.Get("/", h.Ranking.General)
			r.Get("/region/{region}", h.Ranking.ByRegion)
			r.Get("/type/{type}", h.Ranking.ByIndustryType)
			r.Get("/stats", h.Ranking.Stats)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenManager))
			r.Use(requireAdmin)

			r.Get("/impact/{companyID}/history", h.Impact.History)
			r.Get("/users", h.User.List)
			r.Get("/users/{id}", h.User.Get)

			r.Group(func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))

				r.Post("/companies", h.Company.Create)
				r.Put("/companies/{id}", h.Company.Update)
				r.Post("/companies/{id}/projects", h.Company.CreateProject)
				r.Post("/projects/{id}/impacts", h.Project.AddEntries)
				r.Post("/impact/{companyID}", h.Impact.Upsert)

				r.Group(func(r chi.Router) {
					r.Use(requireSuperAdmin)

					r.Post("/users", h.User.Create)
					r.Put("/users/{id}", h.User.Update)
				})
			})

			r.Delete("/companies/{id}", h.Company.Delete)
			r.Delete("/projects/{id}", h.Project.Delete)
			r.With(requireSuperAdmin).Delete("/users/{id}", h.User.Delete)
		})
	})

	return r
}
