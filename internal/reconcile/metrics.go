package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	changesTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "identity_sync_changes_total",
			Help: "Directory changes attempted, by target, field and result.",
		},
		[]string{"target", "field", "result"},
	)

	provisioningTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "identity_sync_provisioning_total",
			Help: "Provisioning gate outcomes.",
		},
		[]string{"outcome"},
	)

	passDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "identity_sync_pass_duration_seconds",
			Help:    "Duration of sync passes.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), //nolint:mnd
		},
		[]string{"pass"},
	)

	passLastSuccess = promauto.NewGaugeVec( //nolint:gochecknoglobals
		prometheus.GaugeOpts{
			Name: "identity_sync_pass_last_success_timestamp_seconds",
			Help: "Unix time of the last pass that finished without error.",
		},
		[]string{"pass"},
	)
)
