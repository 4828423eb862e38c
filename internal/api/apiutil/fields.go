package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// PathID returns the trimmed path value for key, or a FieldError when it is
// missing.
func PathID(r *http.Request, key string) (string, error) {
	id := strings.TrimSpace(r.PathValue(key))
	if id == "" {
		return "", FieldError{Field: key, Reason: "is required"}
	}
	return id, nil
}

// ParseIntRangeField parses raw as an integer within [min, max].
func ParseIntRangeField(raw string, field string, min, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, FieldError{Field: field, Reason: "must be an integer"}
	}
	if value < min || value > max {
		return 0, FieldError{Field: field, Reason: fmt.Sprintf("must be between %d and %d", min, max)}
	}
	return value, nil
}

// ParseOptionalDate accepts a calendar date or an RFC 3339 timestamp. An
// empty value yields nil.
func ParseOptionalDate(raw string, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, FieldError{Field: field, Reason: "must be a valid date"}
}

// ParseTimezone validates an IANA zone name. An empty value yields "".
func ParseTimezone(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.LoadLocation(raw); err != nil {
		return "", FieldError{Field: field, Reason: "must be a valid IANA timezone"}
	}
	return raw, nil
}
