package events

import (
	dbgen "github.com/camka14/mvp-site/internal/db/generated"
)

// Preview validates payload against event and expands it into the rows an
// edit would write, without touching storage.
func Preview(event dbgen.Event, payload EditPayload, opts Options) (*Result, error) {
	r := NewReconciler(nil, nil, nil, opts)
	p, err := r.plan(event, payload)
	if err != nil {
		return nil, err
	}
	return &Result{
		Phase:            PhaseValidating,
		Event:            event,
		FieldIDs:         fieldIDs(p.fields),
		DivisionFieldMap: p.fieldMap,
		TimeSlots:        p.patterns,
		SlotRows:         p.rows,
	}, nil
}
