package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rantaucash/rantaucash-api/internal/pkg/metrics"
)

var authAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "auth",
		Name:      "attempts_total",
		Help:      "Register and login attempts by outcome",
	},
	[]string{"operation", "result"},
)

func recordAttempt(operation, result string) {
	authAttempts.WithLabelValues(operation, result).Inc()
}
