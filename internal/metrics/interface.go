// Package metrics exposes the scheduling engine's Prometheus instruments.
package metrics

// Reconciliation outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeInvalid    = "invalid"
)

// Regeneration outcomes.
const (
	RegenerationGenerated = "generated"
	RegenerationFailed    = "failed"
	RegenerationSkipped   = "skipped"
)

// Conflict scopes.
const (
	ScopeIntraForm  = "intra_form"
	ScopeCrossEvent = "cross_event"
	ScopeSweep      = "sweep"
)

// Metrics decouples the engine from the Prometheus implementation.
type Metrics interface {
	ObserveReconcile(outcome string, seconds float64)
	AddSlotRows(written, deleted int)
	AddConflicts(scope string, count int)
	IncRegeneration(outcome string)
}

// Nop discards every observation.
type Nop struct{}

var _ Metrics = Nop{}

func (Nop) ObserveReconcile(string, float64) {}
func (Nop) AddSlotRows(int, int)             {}
func (Nop) AddConflicts(string, int)         {}
func (Nop) IncRegeneration(string)           {}
