package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/opticode/internal/application/analysis"
	appreport "github.com/bryanwahyu/opticode/internal/application/report"
	"github.com/bryanwahyu/opticode/internal/middleware"
)

// Options configures the cross-cutting parts of the router. Zero values
// disable the corresponding feature.
type Options struct {
	AllowedOrigins []string
	APIKeys        map[string]string
	RateLimiter    *middleware.RateLimiter
	HealthCheckers map[string]middleware.HealthChecker
	ReportTitle    string
}

type Router struct {
	analysisSvc *appanalysis.Service
	reportSvc   *appreport.Service
	reportTitle string
}

func NewRouter(analysisSvc *appanalysis.Service, reportSvc *appreport.Service, opts Options) http.Handler {
	r := &Router{analysisSvc: analysisSvc, reportSvc: reportSvc, reportTitle: opts.ReportTitle}
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Recovery)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{"Content-Disposition", reportURLHeader, middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.RateLimiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
	}

	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: msgMethodNotAllowed})
	})
	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		// every method reaches the handler so non-POST gets the JSON 405
		rt.HandleFunc("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/report", r.wrap(r.handleReport))
		rt.Post("/upload", r.wrap(r.handleUpload))
		rt.Get("/analyses", r.wrap(r.handleAnalyses))
	})

	return mux
}
