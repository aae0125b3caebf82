package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Restore outcomes reported on the restored counter.
const (
	OutcomeClean        = "clean"
	OutcomeOrphaned     = "orphaned"
	OutcomeParentLost   = "parent_cleared"
	OutcomeIDReassigned = "id_reassigned"
)

// Purge reasons reported on the purged counter.
const (
	ReasonSingle = "single"
	ReasonClear  = "clear"
	ReasonExpiry = "expiry"
)

// Metrics provides observability for the recycle bin.
type Metrics struct {
	Archived          *prometheus.CounterVec
	Restored          *prometheus.CounterVec
	Purged            *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the recycle bin metrics on reg. Passing a fresh
// prometheus.NewRegistry keeps tests isolated from the global registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Archived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeplanner_recycle_archived_total",
			Help: "Total entities archived into the recycle bin by type",
		}, []string{"type"}),

		Restored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeplanner_recycle_restored_total",
			Help: "Total recycle items restored by type and outcome",
		}, []string{"type", "outcome"}),

		Purged: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeplanner_recycle_purged_total",
			Help: "Total recycle items permanently removed by reason",
		}, []string{"reason"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifeplanner_recycle_operation_duration_seconds",
			Help:    "Duration of recycle bin operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementArchived(kind string) {
	if m != nil {
		m.Archived.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementRestored(kind string, outcome string) {
	if m != nil {
		m.Restored.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) AddPurged(reason string, count int64) {
	if m != nil && count > 0 {
		m.Purged.WithLabelValues(reason).Add(float64(count))
	}
}

func (m *Metrics) ObserveOperation(operation string, started time.Time) {
	if m != nil {
		m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	}
}
