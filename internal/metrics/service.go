package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds all the Prometheus metrics for the engine.
type Service struct {
	Reconciles        *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram
	SlotRowsWritten   prometheus.Counter
	SlotRowsDeleted   prometheus.Counter
	Conflicts         *prometheus.CounterVec
	Regenerations     *prometheus.CounterVec
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduling_reconciliations_total",
			Help: "Event edits processed by the reconciler, by outcome.",
		}, []string{"outcome"}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduling_reconciliation_duration_seconds",
			Help:    "Time spent validating and applying an event edit.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SlotRowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduling_slot_rows_written_total",
			Help: "Time slot rows upserted by reconciliation.",
		}),
		SlotRowsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduling_slot_rows_deleted_total",
			Help: "Stale time slot rows deleted by reconciliation.",
		}),
		Conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduling_conflicts_detected_total",
			Help: "Overlapping slots detected, by scope.",
		}, []string{"scope"}),
		Regenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduling_regenerations_total",
			Help: "Schedule regeneration attempts, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		s.Reconciles,
		s.ReconcileDuration,
		s.SlotRowsWritten,
		s.SlotRowsDeleted,
		s.Conflicts,
		s.Regenerations,
	)

	return s
}

func (s *Service) ObserveReconcile(outcome string, seconds float64) {
	s.Reconciles.WithLabelValues(outcome).Inc()
	s.ReconcileDuration.Observe(seconds)
}

func (s *Service) AddSlotRows(written, deleted int) {
	s.SlotRowsWritten.Add(float64(written))
	s.SlotRowsDeleted.Add(float64(deleted))
}

func (s *Service) AddConflicts(scope string, count int) {
	if count <= 0 {
		return
	}
	s.Conflicts.WithLabelValues(scope).Add(float64(count))
}

func (s *Service) IncRegeneration(outcome string) {
	s.Regenerations.WithLabelValues(outcome).Inc()
}
