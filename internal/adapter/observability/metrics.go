package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AnalyzerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_requests_total",
			Help: "Total number of requests to the skin analysis backend by outcome",
		},
		[]string{"outcome"},
	)
	AnalyzerRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_request_duration_seconds",
			Help:    "Skin analysis backend request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	AnalysesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total number of payloads normalized into canonical analysis records",
		},
	)
	HealthScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_health_score",
			Help:    "Distribution of normalized health scores (0-100)",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	DetectedConditionsHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_detected_conditions",
			Help:    "Distribution of detected condition counts per analysis",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 12},
		},
	)
	RecommendationsSelectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_selected_total",
			Help: "Total number of products placed into final recommendation lists",
		},
	)
)

// InitMetrics registers all Prometheus collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AnalyzerRequestsTotal)
	prometheus.MustRegister(AnalyzerRequestDuration)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(HealthScoreHistogram)
	prometheus.MustRegister(DetectedConditionsHistogram)
	prometheus.MustRegister(RecommendationsSelectedTotal)
}

// ObserveAnalysis records the outcome distributions of one normalized record.
func ObserveAnalysis(healthScore, conditionCount, selected int) {
	AnalysesTotal.Inc()
	HealthScoreHistogram.Observe(float64(healthScore))
	DetectedConditionsHistogram.Observe(float64(conditionCount))
	RecommendationsSelectedTotal.Add(float64(selected))
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}
