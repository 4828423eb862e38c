package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu            sync.Mutex
	reconciles    map[string]int
	durations     []float64
	rowsWritten   int
	rowsDeleted   int
	conflicts     map[string]int
	regenerations map[string]int
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		reconciles:    make(map[string]int),
		conflicts:     make(map[string]int),
		regenerations: make(map[string]int),
	}
}

func (m *Mock) ObserveReconcile(outcome string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciles[outcome]++
	m.durations = append(m.durations, seconds)
}

func (m *Mock) AddSlotRows(written, deleted int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowsWritten += written
	m.rowsDeleted += deleted
}

func (m *Mock) AddConflicts(scope string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[scope] += count
}

func (m *Mock) IncRegeneration(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regenerations[outcome]++
}

// Reconciles returns how many reconciliations ended with outcome.
func (m *Mock) Reconciles(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconciles[outcome]
}

// SlotRows returns the written and deleted row totals.
func (m *Mock) SlotRows() (written, deleted int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rowsWritten, m.rowsDeleted
}

// Conflicts returns the conflicts recorded for scope.
func (m *Mock) Conflicts(scope string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflicts[scope]
}

// Regenerations returns how many regenerations ended with outcome.
func (m *Mock) Regenerations(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regenerations[outcome]
}
