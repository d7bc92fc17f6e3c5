package backends

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики запросов к backend-сервисам.
var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ag_backend_requests_total",
			Help: "Количество запросов к backend-сервисам",
		},
		[]string{"service", "method", "status"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ag_backend_request_duration_seconds",
			Help:    "Длительность запросов к backend-сервисам",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)

	unauthenticatedCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ag_unauthenticated_calls_total",
			Help: "Количество вызовов, отклонённых до отправки из-за отсутствия токена",
		},
	)
)
