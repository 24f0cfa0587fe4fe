package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/rivacortez/management-demo/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// StatusCategoryCounter counts responses by 2xx/4xx/5xx category
	StatusCategoryCounter *prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Catalog metrics, labelled by entity (product, category, supplier, ...) and operation
	CatalogOperationsCounter *prometheus.CounterVec

	// Supplier comparison metrics
	ComparisonsCounter        prometheus.Counter
	OffersPerComparison       prometheus.Histogram
	RecommendedScoreHistogram prometheus.Histogram

	// Storage metrics
	StorageOperationsCounter *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers all metrics with the default registry. Safe to call more than once.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		prefix := config.Metrics.Prefix

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		StatusCategoryCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category", "method", "path"},
		)

		AuthAttemptsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
		)

		AuthSuccessCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_success_total",
				Help: "Total number of successful authentications",
			},
		)

		AuthErrorsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		CatalogOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_operations_total",
				Help: "Total number of catalog operations",
			},
			[]string{"entity", "operation"},
		)

		ComparisonsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_supplier_comparisons_total",
				Help: "Total number of supplier comparisons computed",
			},
		)

		OffersPerComparison = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_supplier_comparison_offers",
				Help:    "Number of supplier offers ranked per comparison",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		)

		RecommendedScoreHistogram = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_recommended_supplier_score",
				Help:    "Score of the recommended supplier offer",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		)

		StorageOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_storage_operations_total",
				Help: "Total number of object storage operations",
			},
			[]string{"operation", "result"},
		)
	})
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path, status string, category string, duration float64) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	if category != "" {
		StatusCategoryCounter.WithLabelValues(category, method, path).Inc()
	}
}

// RecordAuthAttempt records the outcome of a token check
func RecordAuthAttempt(success bool) {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.Inc()
	if success {
		AuthSuccessCounter.Inc()
	} else {
		AuthErrorsCounter.Inc()
	}
}

// RecordCatalogOperation increments the counter for catalog operations
func RecordCatalogOperation(entity, operation string) {
	if CatalogOperationsCounter == nil {
		return
	}
	CatalogOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordComparison records one supplier comparison and, when there is one, the recommended score
func RecordComparison(offers int, recommendedScore float64, hasRecommendation bool) {
	if ComparisonsCounter == nil {
		return
	}
	ComparisonsCounter.Inc()
	OffersPerComparison.Observe(float64(offers))
	if hasRecommendation {
		RecommendedScoreHistogram.Observe(recommendedScore)
	}
}

// RecordStorageOperation increments the storage counter
func RecordStorageOperation(operation string, err error) {
	if StorageOperationsCounter == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	StorageOperationsCounter.WithLabelValues(operation, result).Inc()
}
