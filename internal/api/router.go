package api

import (
	"dispatch-route-service/internal/api/handlers"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the HTTP layer needs.
type Deps struct {
	Geocoder      services.Geocoder
	Dispatcher    handlers.DispatchRunner
	Runs          ports.RunRepository
	DefaultOrigin string
	CORSOrigins   []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	obs.RegisterMetrics()

	geocodeHandler := &handlers.GeocodeHandler{Geocoder: d.Geocoder}
	dispatchHandler := &handlers.DispatchHandler{
		Dispatcher:    d.Dispatcher,
		Runs:          d.Runs,
		DefaultOrigin: d.DefaultOrigin,
	}

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", "X-Dispatch-Run-ID", "X-Request-ID"},
	}))

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	r.Get("/geocode", geocodeHandler.Get)
	r.Get("/template.xlsx", handlers.Template)

	r.Route("/dispatches", func(r chi.Router) {
		r.Post("/", dispatchHandler.Create)
		r.Post("/xlsx", dispatchHandler.CreateFromSheet)
		r.Get("/{id}", dispatchHandler.Get)
	})

	return r
}
