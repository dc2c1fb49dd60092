package payments

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rantaucash/rantaucash-api/internal/pkg/metrics"
)

var (
	paymentsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "payments",
			Name:      "submitted_total",
			Help:      "Payments submitted by occupants",
		},
	)

	paymentsReviewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "payments",
			Name:      "reviewed_total",
			Help:      "Payments moved out of pending, by resulting status",
		},
		[]string{"status"},
	)
)
