// Package timeslots turns weekly availability patterns into the atomic
// weekday × field rows the scheduling tables store.
package timeslots

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/camka14/mvp-site/internal/divisions"
)

const (
	MinutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

// RawSlot is a slot fragment as clients send it. Either the singular or the
// plural form of weekday and field may be present.
type RawSlot struct {
	ID                string     `json:"id"`
	DayOfWeek         *int       `json:"dayOfWeek,omitempty"`
	DaysOfWeek        []int      `json:"daysOfWeek,omitempty"`
	ScheduledFieldID  string     `json:"scheduledFieldId,omitempty"`
	ScheduledFieldIDs []string   `json:"scheduledFieldIds,omitempty"`
	Divisions         []string   `json:"divisions,omitempty"`
	StartTimeMinutes  int        `json:"startTimeMinutes"`
	EndTimeMinutes    int        `json:"endTimeMinutes"`
	Repeating         bool       `json:"repeating"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
}

// Pattern is the canonical form of a weekly availability rule.
type Pattern struct {
	ID           string     `json:"id"`
	Weekdays     []int      `json:"daysOfWeek"`
	StartMinutes int        `json:"startTimeMinutes"`
	EndMinutes   int        `json:"endTimeMinutes"`
	FieldIDs     []string   `json:"scheduledFieldIds"`
	Divisions    []string   `json:"divisions"`
	Repeating    bool       `json:"repeating"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// Normalize converts a raw fragment into a canonical pattern. The plural
// weekday/field form wins over the singular one whenever it is non-empty.
func Normalize(raw RawSlot) Pattern {
	weekdays := raw.DaysOfWeek
	if len(weekdays) == 0 && raw.DayOfWeek != nil {
		weekdays = []int{*raw.DayOfWeek}
	}

	fieldIDs := raw.ScheduledFieldIDs
	if len(fieldIDs) == 0 && strings.TrimSpace(raw.ScheduledFieldID) != "" {
		fieldIDs = []string{raw.ScheduledFieldID}
	}

	return Canonical(Pattern{
		ID:           raw.ID,
		Weekdays:     weekdays,
		StartMinutes: raw.StartTimeMinutes,
		EndMinutes:   raw.EndTimeMinutes,
		FieldIDs:     fieldIDs,
		Divisions:    raw.Divisions,
		Repeating:    raw.Repeating,
		StartDate:    raw.StartDate,
		EndDate:      raw.EndDate,
	})
}

// NormalizeAll normalizes every fragment, preserving input order.
func NormalizeAll(raw []RawSlot) []Pattern {
	patterns := make([]Pattern, 0, len(raw))
	for _, slot := range raw {
		patterns = append(patterns, Normalize(slot))
	}
	return patterns
}

// Canonical returns p with its sets cleaned up. Canonical(Canonical(p)) equals
// Canonical(p).
func Canonical(p Pattern) Pattern {
	return Pattern{
		ID:           strings.TrimSpace(p.ID),
		Weekdays:     canonicalWeekdays(p.Weekdays),
		StartMinutes: p.StartMinutes,
		EndMinutes:   p.EndMinutes,
		FieldIDs:     uniqueTrimmed(p.FieldIDs),
		Divisions:    divisions.NormalizeKeys(p.Divisions),
		Repeating:    p.Repeating,
		StartDate:    truncateDate(p.StartDate),
		EndDate:      truncateDate(p.EndDate),
	}
}

func canonicalWeekdays(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	result := make([]int, 0, len(values))
	for _, day := range values {
		if day < 0 || day > 6 {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		result = append(result, day)
	}
	sort.Ints(result)
	return result
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func truncateDate(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	day := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
	return &day
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(dateLayout)
}

// HasWeekday reports whether p runs on day.
func (p Pattern) HasWeekday(day int) bool {
	for _, d := range p.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// HasField reports whether p covers fieldID.
func (p Pattern) HasField(fieldID string) bool {
	for _, id := range p.FieldIDs {
		if id == fieldID {
			return true
		}
	}
	return false
}

// FormatMinutes renders minutes since midnight as HH:MM; 1440 is "24:00".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
