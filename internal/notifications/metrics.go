package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rantaucash/rantaucash-api/internal/pkg/metrics"
)

// kindManual labels notifications written by an admin.
const kindManual = "manual"

var notificationsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "notifications",
		Name:      "created_total",
		Help:      "Notifications created, by kind",
	},
	[]string{"kind"},
)

func recordCreated(kind string) {
	notificationsCreated.WithLabelValues(kind).Inc()
}
