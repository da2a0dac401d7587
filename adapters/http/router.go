package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/tanzim/portfolio-api/adapters/idgen"
	"github.com/tanzim/portfolio-api/adapters/metrics"
	"github.com/tanzim/portfolio-api/app"
	_ "github.com/tanzim/portfolio-api/docs/swagger" // swagger docs
	"github.com/tanzim/portfolio-api/domain/resource"
	"github.com/tanzim/portfolio-api/ports"
)

// RouterConfig holds optional configuration for the router.
type RouterConfig struct {
	Metrics        *metrics.Collector
	MetricsHandler http.Handler // served at MetricsPath when set
	MetricsPath    string       // default "/metrics"
	EnableOpenAPI  bool
	LegacyRoutes   bool     // also mount /add_x, /all_xs, /update_x/{id}, /delete_x/{id}
	AllowedOrigins []string // CORS origins; empty allows all
	Version        string
	RequestTimeout time.Duration // default 60s
	ErrorIDs       ports.IDGenerator
}

// NewRouter creates the main HTTP router.
func NewRouter(service *app.ResourceService, registry *resource.Registry, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.ErrorIDs == nil {
		cfg.ErrorIDs = idgen.UUID{}
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger, cfg.MetricsPath))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics, cfg.MetricsPath))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	health := NewHealthHandler(service)
	r.Get("/health", health.Liveness)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.MetricsHandler != nil {
		r.Handle(cfg.MetricsPath, cfg.MetricsHandler)
	} else if cfg.Metrics != nil {
		r.Handle(cfg.MetricsPath, promhttp.Handler())
	}

	if cfg.EnableOpenAPI {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Get("/version", Version(cfg.Version))
	r.Get("/", banner)

	h := NewResourceHandler(service, logger, cfg.ErrorIDs, cfg.Metrics)
	for _, def := range registry.All() {
		mountResource(r, h, def)
		if cfg.LegacyRoutes {
			mountLegacy(r, h, def)
		}
	}

	return r
}

func mountResource(r chi.Router, h *ResourceHandler, def resource.Definition) {
	base := "/" + def.Path
	if def.Allows(resource.OpCreate) {
		r.Post(base, h.Create(def))
	}
	if def.Allows(resource.OpList) {
		r.Get(base, h.List(def))
	}
	if def.Allows(resource.OpUpdate) {
		r.Patch(base+"/{id}", h.Update(def))
	}
	if def.Allows(resource.OpDelete) {
		r.Delete(base+"/{id}", h.Delete(def))
	}
}

func mountLegacy(r chi.Router, h *ResourceHandler, def resource.Definition) {
	if def.Allows(resource.OpCreate) {
		r.Post("/add_"+def.SingularName(), h.Create(def))
	}
	if def.Allows(resource.OpList) {
		r.Get("/all_"+def.PluralName(), h.List(def))
	}
	if def.Allows(resource.OpUpdate) {
		r.Patch("/update_"+def.SingularName()+"/{id}", h.Update(def))
	}
	if def.Allows(resource.OpDelete) {
		r.Delete("/delete_"+def.SingularName()+"/{id}", h.Delete(def))
	}
}
