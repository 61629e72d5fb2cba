package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics surface the services depend on. Tests and
// metric-less deployments use the noop implementation.
type Recorder interface {
	RecordProvision(outcome string)
	RecordTeardown(outcome string)
	RecordReconcileRun(checked, inconsistent, repaired, failed int)
	ObserveProvisionDuration(seconds float64)
}

// Provision outcome label values.
const (
	OutcomeSuccess       = "success"
	OutcomeRejected      = "rejected"
	OutcomeFailed        = "failed"
	OutcomeCompensated   = "compensated"
	OutcomeAlreadyExists = "already_exists"
)

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds the Prometheus collectors for the provisioning core.
type Metrics struct {
	ProvisionsTotal       *prometheus.CounterVec
	TeardownsTotal        *prometheus.CounterVec
	ReconcileRunsTotal    prometheus.Counter
	ReconcileChecked      prometheus.Counter
	ReconcileInconsistent prometheus.Counter
	ReconcileRepaired     prometheus.Counter
	ReconcileFailedTotal  prometheus.Counter
	ProvisionDuration     prometheus.Histogram
}

// New registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		ProvisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dormdb_provisions_total",
			Help: "Provisioning attempts by outcome",
		}, []string{"outcome"}),
		TeardownsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dormdb_teardowns_total",
			Help: "Teardown invocations by outcome",
		}, []string{"outcome"}),
		ReconcileRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dormdb_reconcile_runs_total",
			Help: "Reconciliation passes executed",
		}),
		ReconcileChecked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dormdb_reconcile_records_checked_total",
			Help: "Ledger records checked during reconciliation",
		}),
		ReconcileInconsistent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dormdb_reconcile_records_inconsistent_total",
			Help: "Records found dangling during reconciliation",
		}),
		ReconcileRepaired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dormdb_reconcile_records_repaired_total",
			Help: "Inconsistent records repaired during reconciliation",
		}),
		ReconcileFailedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dormdb_reconcile_records_failed_total",
			Help: "Records whose reconciliation check or repair failed",
		}),
		ProvisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dormdb_provision_duration_seconds",
			Help:    "End-to-end duration of provisioning runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordProvision(outcome string) {
	m.ProvisionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordTeardown(outcome string) {
	m.TeardownsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordReconcileRun(checked, inconsistent, repaired, failed int) {
	m.ReconcileRunsTotal.Inc()
	m.ReconcileChecked.Add(float64(checked))
	m.ReconcileInconsistent.Add(float64(inconsistent))
	m.ReconcileRepaired.Add(float64(repaired))
	m.ReconcileFailedTotal.Add(float64(failed))
}

func (m *Metrics) ObserveProvisionDuration(seconds float64) {
	m.ProvisionDuration.Observe(seconds)
}
