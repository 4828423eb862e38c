package events

import (
	"errors"
	"fmt"

	"github.com/camka14/mvp-site/internal/conflicts"
)

var (
	ErrEventNotFound = errors.New("event not found")
	// ErrCrossEventConflict is returned in strict mode when a produced slot
	// overlaps another event's committed schedule.
	ErrCrossEventConflict = errors.New("time slot conflicts with another event")
	// ErrIDInUse is returned when a submitted field or slot id already
	// belongs to a different event.
	ErrIDInUse = errors.New("id belongs to another event")
)

// Reconciliation steps, in the order they run.
const (
	StepLoad           = "load"
	StepCheckConflicts = "check_conflicts"
	StepRemoveMatches  = "remove_matches"
	StepRemoveFields   = "remove_fields"
	StepUpsertFields   = "upsert_fields"
	StepSyncDivisions  = "sync_divisions"
	StepSyncSlots      = "sync_slots"
	StepUpdateEvent    = "update_event"
	StepCommit         = "commit"
)

// ReconcileError reports the step at which a reconciliation was rolled back.
type ReconcileError struct {
	Step string
	Err  error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Step, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// ConflictError lists the committed rows a strict-mode edit collided with.
type ConflictError struct {
	Conflicts []conflicts.Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrCrossEventConflict.Error()
	}
	first := e.Conflicts[0]
	return fmt.Sprintf("%v: %s on field %s", ErrCrossEventConflict, first.EventName, first.FieldID)
}

func (e *ConflictError) Unwrap() error {
	return ErrCrossEventConflict
}

func stepError(step string, err error) error {
	if err == nil {
		return nil
	}
	return &ReconcileError{Step: step, Err: err}
}
