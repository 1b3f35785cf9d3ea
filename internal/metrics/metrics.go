package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons recorded by ObserveFailure.
const (
	ReasonInvalidInput  = "invalid_input"
	ReasonParameters    = "parameter_retrieval"
	ReasonProbe         = "probe_failed"
	ReasonExhausted     = "generation_exhausted"
	ReasonRandomSource  = "random_source"
	ReasonStoreConflict = "store_conflict"
	ReasonStore         = "store_failed"
)

// Metrics holds the voucher service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	issued      prometheus.Counter
	candidates  prometheus.Histogram
	failures    *prometheus.CounterVec
	invalidated prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voucherhub",
			Name:      "vouchers_issued_total",
			Help:      "Vouchers successfully generated and stored.",
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voucherhub",
			Name:      "generation_candidates",
			Help:      "Candidate codes evaluated per generation sequence.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20},
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voucherhub",
			Name:      "issue_failures_total",
			Help:      "Voucher issue requests that failed, by reason.",
		}, []string{"reason"}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voucherhub",
			Name:      "vouchers_invalidated_total",
			Help:      "Vouchers flipped to invalid by the expiry sweep.",
		}),
	}
	reg.MustRegister(m.issued, m.candidates, m.failures, m.invalidated)
	return m
}

func (m *Metrics) ObserveIssued() {
	if m == nil {
		return
	}
	m.issued.Inc()
}

func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(n))
}

func (m *Metrics) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveInvalidated(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.invalidated.Add(float64(n))
}
