package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	defaultHook     PrometheusHook //nolint:gochecknoglobals
	defaultHookOnce sync.Once      //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level. Warn and error counts are the quickest
// signal that a pass is failing for many employees.
type PrometheusHook struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	h.counter.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook returns the hook registered on the default registry. The counter is
// registered once; later calls share it whatever service name they pass.
func NewPrometheusHook(service string) PrometheusHook {
	defaultHookOnce.Do(func() {
		defaultHook = NewPrometheusHookFor(prometheus.DefaultRegisterer, service)
	})

	return defaultHook
}

// NewPrometheusHookFor registers the log statement counter on reg.
func NewPrometheusHookFor(reg prometheus.Registerer, service string) PrometheusHook {
	return PrometheusHook{
		counter: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		),
	}
}
