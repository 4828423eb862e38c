package timeslots

// Overlaps reports whether the half-open minute intervals [s1,e1) and [s2,e2)
// intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return max(s1, s2) < min(e1, e2)
}

// PatternsConflict reports whether a and b claim the same field on the same
// weekday for intersecting minutes. The relation is symmetric.
func PatternsConflict(a, b Pattern) bool {
	if !sharesField(a, b) || !sharesWeekday(a, b) {
		return false
	}
	return Overlaps(a.StartMinutes, a.EndMinutes, b.StartMinutes, b.EndMinutes)
}

func sharesField(a, b Pattern) bool {
	for _, id := range a.FieldIDs {
		if b.HasField(id) {
			return true
		}
	}
	return false
}

func sharesWeekday(a, b Pattern) bool {
	for _, day := range a.Weekdays {
		if b.HasWeekday(day) {
			return true
		}
	}
	return false
}
