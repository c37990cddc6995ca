package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tempizhere/pageanalyzer/internal/metrics"
	"github.com/tempizhere/pageanalyzer/internal/middleware"
)

// NewRouter собирает маршрутизатор со всеми обработчиками и middleware.
// Статистика доступна только из trustedSubnet.
func NewRouter(a *App, trustedSubnet string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(a.logger))
	r.Use(metrics.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.GzipMiddleware)

	r.NotFound(a.HandleNotFound)
	r.MethodNotAllowed(a.HandleMethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(middleware.FlashMiddleware(a.flashes, a.logger))
		r.Get("/", a.HandleIndex)
		r.Get("/urls", a.HandleListURLs)
		r.Post("/urls", a.HandleCreateURL)
		r.Get("/urls/{id}", a.HandleShowURL)
		r.Post("/urls/{id}/checks", a.HandleCreateCheck)
	})

	r.Get("/ping", a.HandlePing)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.With(middleware.TrustedSubnetMiddleware(trustedSubnet, a.logger)).
		Get("/api/internal/stats", a.HandleStats)

	return r
}
