package timeslots

import (
	"fmt"
	"time"

	"github.com/camka14/mvp-site/internal/divisions"
)

// SlotRow is the unit actually persisted: one weekday on one field.
type SlotRow struct {
	ID           string     `json:"id"`
	PatternID    string     `json:"patternId"`
	Weekday      int        `json:"dayOfWeek"`
	FieldID      string     `json:"fieldId"`
	StartMinutes int        `json:"startTimeMinutes"`
	EndMinutes   int        `json:"endTimeMinutes"`
	Repeating    bool       `json:"repeating"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Divisions    []string   `json:"divisions"`
}

// FanOutOptions carries the event-level settings that affect every row.
type FanOutOptions struct {
	// SingleDivision stamps every row with EventDivisions instead of the
	// pattern's own division subset.
	SingleDivision bool
	EventDivisions []string
}

// CompositeID is the id of the row for (patternID, weekday, fieldID) when the
// pattern spans more than one weekday or field.
func CompositeID(patternID string, weekday int, fieldID string) string {
	return fmt.Sprintf("%s__d%d__f%s", patternID, weekday, fieldID)
}

// RowID returns the id fan-out assigns to the (weekday, fieldID) row of p.
// Single-day, single-field patterns keep their own id.
func RowID(p Pattern, weekday int, fieldID string) string {
	if len(p.Weekdays) == 1 && len(p.FieldIDs) == 1 {
		return p.ID
	}
	return CompositeID(p.ID, weekday, fieldID)
}

// FanOut expands p into len(Weekdays) × len(FieldIDs) rows, weekday-major.
func FanOut(p Pattern, opts FanOutOptions) []SlotRow {
	p = Canonical(p)

	rowDivisions := p.Divisions
	if opts.SingleDivision {
		rowDivisions = divisions.NormalizeKeys(opts.EventDivisions)
	}

	rows := make([]SlotRow, 0, len(p.Weekdays)*len(p.FieldIDs))
	for _, day := range p.Weekdays {
		for _, fieldID := range p.FieldIDs {
			rowDivs := make([]string, len(rowDivisions))
			copy(rowDivs, rowDivisions)
			rows = append(rows, SlotRow{
				ID:           RowID(p, day, fieldID),
				PatternID:    p.ID,
				Weekday:      day,
				FieldID:      fieldID,
				StartMinutes: p.StartMinutes,
				EndMinutes:   p.EndMinutes,
				Repeating:    p.Repeating,
				StartDate:    p.StartDate,
				EndDate:      p.EndDate,
				Divisions:    rowDivs,
			})
		}
	}
	return rows
}

// FanOutAll expands every pattern and concatenates the rows.
func FanOutAll(patterns []Pattern, opts FanOutOptions) []SlotRow {
	var rows []SlotRow
	for _, p := range patterns {
		rows = append(rows, FanOut(p, opts)...)
	}
	return rows
}

// RowIDs collects the ids of rows in order.
func RowIDs(rows []SlotRow) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids
}
