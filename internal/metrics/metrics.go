// Package metrics declares the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Classification
	IntentsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookhub_intents_classified_total",
			Help: "Messages classified, by intent",
		},
		[]string{"intent"},
	)

	ProcessingMode = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookhub_processing_mode_total",
			Help: "Messages routed to simple or advanced processing",
		},
		[]string{"mode"},
	)

	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookhub_classification_duration_seconds",
			Help:    "Time spent classifying a message",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		},
	)

	// Recommendations
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookhub_recommendations_served_total",
			Help: "Books returned in chat responses, by intent",
		},
		[]string{"intent"},
	)

	EmptyRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookhub_empty_recommendations_total",
			Help: "Chat responses that found no book, by intent",
		},
		[]string{"intent"},
	)

	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookhub_catalog_books",
			Help: "Books in the in-memory catalog snapshot",
		},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookhub_api_requests_total",
			Help: "HTTP requests handled",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookhub_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookhub_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
	)

	// gRPC
	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookhub_grpc_requests_total",
			Help: "gRPC calls handled",
		},
		[]string{"method", "code"},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookhub_ws_connections",
			Help: "Open chat websocket connections",
		},
	)
)

// RecordClassification records one classified message.
func RecordClassification(intent, mode string, duration time.Duration) {
	IntentsClassified.WithLabelValues(intent).Inc()
	ProcessingMode.WithLabelValues(mode).Inc()
	ClassificationDuration.Observe(duration.Seconds())
}

func RecordRecommendations(intent string, n int) {
	if n == 0 {
		EmptyRecommendations.WithLabelValues(intent).Inc()
		return
	}
	RecommendationsServed.WithLabelValues(intent).Add(float64(n))
}

func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordGRPCRequest(method, code string) {
	GRPCRequestsTotal.WithLabelValues(method, code).Inc()
}

func SetCatalogSize(n int) {
	CatalogBooks.Set(float64(n))
}

// TrackWSConnection moves the open websocket gauge up or down.
func TrackWSConnection(open bool) {
	if open {
		WSConnections.Inc()
	} else {
		WSConnections.Dec()
	}
}
