package timeslots

import (
	"fmt"
	"sort"
	"strings"

	"github.com/camka14/mvp-site/internal/divisions"
)

// ValidationError maps a slot path such as "timeSlots[2].endTimeMinutes" to
// the first problem found for that slot.
type ValidationError struct {
	FieldErrors map[string]string `json:"fieldErrors"`
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	paths := v.Paths()
	return fmt.Sprintf("validation failed: %s %s", paths[0], v.FieldErrors[paths[0]])
}

// HasErrors reports whether any slot failed validation.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Paths returns the failing paths in sorted order.
func (v *ValidationError) Paths() []string {
	if v == nil {
		return nil
	}
	paths := make([]string, 0, len(v.FieldErrors))
	for path := range v.FieldErrors {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (v *ValidationError) add(path, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[path] = message
}

// ValidateOptions describes the event the slots belong to.
type ValidateOptions struct {
	// FieldIDs is the event's current field set.
	FieldIDs       []string
	EventDivisions []string
	SingleDivision bool
}

// SlotPath renders the error path for slot index and property.
func SlotPath(index int, property string) string {
	return fmt.Sprintf("timeSlots[%d].%s", index, property)
}

// PruneStaleFields drops field ids that are not part of fieldIDs. It returns
// the cleaned pattern and the ids it removed.
func PruneStaleFields(p Pattern, fieldIDs []string) (Pattern, []string) {
	allowed := make(map[string]struct{}, len(fieldIDs))
	for _, id := range fieldIDs {
		allowed[id] = struct{}{}
	}
	kept := make([]string, 0, len(p.FieldIDs))
	var removed []string
	for _, id := range p.FieldIDs {
		if _, ok := allowed[id]; ok {
			kept = append(kept, id)
			continue
		}
		removed = append(removed, id)
	}
	p.FieldIDs = kept
	return p, removed
}

// Validate checks the patterns of a single edit. It returns the patterns with
// stale field references cleared and, when anything is wrong, a
// *ValidationError carrying the first failure of each slot. Duration problems
// are reported before overlap is considered; overlap is only evaluated
// between slots that are otherwise valid.
func Validate(patterns []Pattern, opts ValidateOptions) ([]Pattern, error) {
	vErr := &ValidationError{}
	cleaned := make([]Pattern, len(patterns))
	valid := make([]bool, len(patterns))

	eventDivisions := make(map[string]struct{}, len(opts.EventDivisions))
	for _, key := range divisions.NormalizeKeys(opts.EventDivisions) {
		eventDivisions[key] = struct{}{}
	}

	for i, raw := range patterns {
		p := Canonical(raw)
		p, removed := PruneStaleFields(p, opts.FieldIDs)
		cleaned[i] = p

		switch {
		case len(p.FieldIDs) == 0:
			vErr.add(SlotPath(i, "scheduledFieldIds"), "select at least one field")
		case len(p.Weekdays) == 0:
			vErr.add(SlotPath(i, "daysOfWeek"), "select at least one day")
		case p.StartMinutes < 0 || p.StartMinutes >= MinutesPerDay:
			vErr.add(SlotPath(i, "startTimeMinutes"), "start time must fall within the day")
		case p.EndMinutes > MinutesPerDay:
			vErr.add(SlotPath(i, "endTimeMinutes"), "end time must fall within the day")
		case p.EndMinutes <= p.StartMinutes:
			vErr.add(SlotPath(i, "endTimeMinutes"), "end time must be after start time")
		case len(removed) > 0:
			vErr.add(SlotPath(i, "scheduledFieldIds"), fmt.Sprintf("field %s is no longer part of this event", strings.Join(removed, ", ")))
		case p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate):
			vErr.add(SlotPath(i, "endDate"), "end date must be on or after start date")
		default:
			if msg := divisionProblem(p, eventDivisions, opts.SingleDivision); msg != "" {
				vErr.add(SlotPath(i, "divisions"), msg)
				continue
			}
			valid[i] = true
		}
	}

	for i := range cleaned {
		if !valid[i] {
			continue
		}
		for j := range cleaned {
			if i == j || !valid[j] {
				continue
			}
			if PatternsConflict(cleaned[i], cleaned[j]) {
				vErr.add(SlotPath(i, "startTimeMinutes"), fmt.Sprintf("overlaps with time slot %d", j+1))
				break
			}
		}
	}

	if vErr.HasErrors() {
		return cleaned, vErr
	}
	return cleaned, nil
}

func divisionProblem(p Pattern, eventDivisions map[string]struct{}, singleDivision bool) string {
	if singleDivision || len(eventDivisions) == 0 {
		return ""
	}
	if len(p.Divisions) == 0 {
		return "select at least one division"
	}
	var unknown []string
	for _, key := range p.Divisions {
		if _, ok := eventDivisions[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		return fmt.Sprintf("division %s is not offered by this event", strings.Join(unknown, ", "))
	}
	return ""
}
