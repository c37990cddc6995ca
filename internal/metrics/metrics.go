// Package metrics содержит Prometheus-метрики анализатора страниц.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы проверки адреса
const (
	OutcomeSuccess          = "success"
	OutcomeServerError      = "server_error"
	OutcomeConnectionFailed = "connection_failed"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	checksTotal                *prometheus.CounterVec
	fetchDurationSeconds       prometheus.Histogram
	urlsCreatedTotal           prometheus.Counter

	once sync.Once
)

// Init регистрирует коллекторы. Повторный вызов ничего не делает.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)

		checksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyzer_checks_total",
				Help: "Total number of URL checks, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analyzer_fetch_duration_seconds",
				Help:    "Histogram of remote page fetch durations.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		urlsCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "analyzer_urls_created_total",
				Help: "Total number of URLs added to the registry.",
			},
		)
	})
}

// Handler возвращает обработчик для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware считает запросы и время их обработки по шаблону маршрута chi
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}
		ObserveHTTPRequest(r.Method, routePattern, ww.statusCode, time.Since(start))
	})
}

// ObserveHTTPRequest увеличивает счётчики HTTP-запросов
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCheck учитывает исход проверки и длительность загрузки страницы
func ObserveCheck(outcome string, duration time.Duration) {
	Init()
	checksTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		fetchDurationSeconds.Observe(duration.Seconds())
	}
}

// ObserveURLCreated учитывает добавление нового адреса
func ObserveURLCreated() {
	Init()
	urlsCreatedTotal.Inc()
}

// statusRecorder запоминает код ответа
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}
