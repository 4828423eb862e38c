package timeslots

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{name: "partial", s1: 540, e1: 600, s2: 590, e2: 650, want: true},
		{name: "touching", s1: 540, e1: 600, s2: 600, e2: 660, want: false},
		{name: "contained", s1: 0, e1: 1440, s2: 600, e2: 660, want: true},
		{name: "disjoint", s1: 0, e1: 60, s2: 120, e2: 180, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Fatalf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestPatternsConflictNeedsSharedFieldAndDay(t *testing.T) {
	base := Pattern{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 540, EndMinutes: 600}

	sameAll := Pattern{Weekdays: []int{1, 2}, FieldIDs: []string{"F1"}, StartMinutes: 590, EndMinutes: 650}
	otherField := Pattern{Weekdays: []int{1}, FieldIDs: []string{"F2"}, StartMinutes: 590, EndMinutes: 650}
	otherDay := Pattern{Weekdays: []int{2}, FieldIDs: []string{"F1"}, StartMinutes: 590, EndMinutes: 650}

	assert.True(t, PatternsConflict(base, sameAll))
	assert.True(t, PatternsConflict(sameAll, base))
	assert.False(t, PatternsConflict(base, otherField))
	assert.False(t, PatternsConflict(base, otherDay))
}

func validationErr(t *testing.T, err error) *ValidationError {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %v", err)
	return vErr
}

func TestValidateFirstFailurePerSlot(t *testing.T) {
	patterns := []Pattern{
		{Weekdays: []int{1}, StartMinutes: 60, EndMinutes: 30},
		{FieldIDs: []string{"F1"}, StartMinutes: 60, EndMinutes: 30},
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 60, EndMinutes: 60},
		{Weekdays: []int{1}, FieldIDs: []string{"F1", "F9"}, StartMinutes: 600, EndMinutes: 660},
	}

	cleaned, err := Validate(patterns, ValidateOptions{FieldIDs: []string{"F1"}})
	vErr := validationErr(t, err)

	assert.Equal(t, map[string]string{
		"timeSlots[0].scheduledFieldIds": "select at least one field",
		"timeSlots[1].daysOfWeek":        "select at least one day",
		"timeSlots[2].endTimeMinutes":    "end time must be after start time",
		"timeSlots[3].scheduledFieldIds": "field F9 is no longer part of this event",
	}, vErr.FieldErrors)
	assert.Equal(t, []string{"F1"}, cleaned[3].FieldIDs)
}

func TestValidateFlagsBothOverlappingSlots(t *testing.T) {
	patterns := []Pattern{
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 540, EndMinutes: 600},
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 590, EndMinutes: 650},
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 650, EndMinutes: 700},
	}

	_, err := Validate(patterns, ValidateOptions{FieldIDs: []string{"F1"}})
	vErr := validationErr(t, err)

	assert.Equal(t, "overlaps with time slot 2", vErr.FieldErrors["timeSlots[0].startTimeMinutes"])
	assert.Equal(t, "overlaps with time slot 1", vErr.FieldErrors["timeSlots[1].startTimeMinutes"])
	assert.NotContains(t, vErr.FieldErrors, "timeSlots[2].startTimeMinutes")
}

func TestValidateSkipsOverlapForInvalidSlots(t *testing.T) {
	patterns := []Pattern{
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 540, EndMinutes: 600},
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 590, EndMinutes: 500},
	}

	_, err := Validate(patterns, ValidateOptions{FieldIDs: []string{"F1"}})
	vErr := validationErr(t, err)

	assert.Equal(t, []string{"timeSlots[1].endTimeMinutes"}, vErr.Paths())
}

func TestValidateDivisions(t *testing.T) {
	patterns := []Pattern{
		{Weekdays: []int{1}, FieldIDs: []string{"F1"}, StartMinutes: 0, EndMinutes: 60},
		{Weekdays: []int{2}, FieldIDs: []string{"F1"}, StartMinutes: 0, EndMinutes: 60, Divisions: []string{"pro"}},
		{Weekdays: []int{3}, FieldIDs: []string{"F1"}, StartMinutes: 0, EndMinutes: 60, Divisions: []string{"Open"}},
	}
	opts := ValidateOptions{FieldIDs: []string{"F1"}, EventDivisions: []string{"open", "advanced"}}

	_, err := Validate(patterns, opts)
	vErr := validationErr(t, err)
	assert.Equal(t, "select at least one division", vErr.FieldErrors["timeSlots[0].divisions"])
	assert.Equal(t, "division pro is not offered by this event", vErr.FieldErrors["timeSlots[1].divisions"])
	assert.NotContains(t, vErr.FieldErrors, "timeSlots[2].divisions")

	opts.SingleDivision = true
	_, err = Validate(patterns, opts)
	assert.NoError(t, err)
}

func TestValidateAcceptsMidnightEnd(t *testing.T) {
	_, err := Validate([]Pattern{{Weekdays: []int{0}, FieldIDs: []string{"F1"}, StartMinutes: 1380, EndMinutes: MinutesPerDay}}, ValidateOptions{FieldIDs: []string{"F1"}})
	assert.NoError(t, err)
}
