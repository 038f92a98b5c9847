package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the run-level counters exported on /metrics.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	VariantsTotal *prometheus.CounterVec
	PagesFetched  prometheus.Counter
}

// New registers the sync counters with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podsync",
			Name:      "runs_total",
			Help:      "Completed sync runs by result.",
		}, []string{"result"}),
		VariantsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podsync",
			Name:      "variants_total",
			Help:      "Processed variants by outcome.",
		}, []string{"outcome"}),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "podsync",
			Name:      "pages_fetched_total",
			Help:      "Remote catalog pages fetched.",
		}),
	}
}

// NewNop returns metrics backed by a throwaway registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
