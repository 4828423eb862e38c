// Package divisions normalizes division keys, describes them, and keeps the
// division → field eligibility map consistent with an event's fields.
package divisions

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const rowIDSeparator = "__division__"

// NormalizeKey lower-cases key, trims it and joins inner whitespace with
// underscores.
func NormalizeKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), "_")
}

// NormalizeKeys normalizes and de-duplicates keys, keeping first-seen order.
func NormalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		key = NormalizeKey(key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	return result
}

// RowID is the persisted id of the division row for key within eventID.
func RowID(eventID, key string) string {
	return eventID + rowIDSeparator + NormalizeKey(key)
}

// Gender codes used as the first token of a structured key.
const (
	GenderMen   = "m"
	GenderWomen = "f"
	GenderCoed  = "c"
)

// Rating bases used as the second token of a structured key.
const (
	RatingSkill = "skill"
	RatingAge   = "age"
)

// Descriptor is the rich form of a division key.
type Descriptor struct {
	Key            string     `json:"key"`
	Name           string     `json:"name"`
	Gender         string     `json:"gender,omitempty"`
	RatingType     string     `json:"ratingType,omitempty"`
	CategoryID     string     `json:"categoryId,omitempty"`
	AgeCutoffDate  *time.Time `json:"ageCutoffDate,omitempty"`
	AgeCutoffLabel string     `json:"ageCutoffLabel,omitempty"`
}

// Describe builds a Descriptor for key. Keys shaped like
// "{gender}_{basis}_{category}" (for example "c_age_u12" or "m_skill_open")
// get gender, rating basis and category filled in; age categories also get a
// birth-date cutoff computed against reference, normally the event start.
// Any other key is described by its humanized name only.
func Describe(key string, reference time.Time) Descriptor {
	key = NormalizeKey(key)
	desc := Descriptor{Key: key, Name: humanize(key)}

	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 {
		return desc
	}
	gender, basis, category := parts[0], parts[1], parts[2]
	if !validGender(gender) || (basis != RatingSkill && basis != RatingAge) || category == "" {
		return desc
	}

	desc.Gender = gender
	desc.RatingType = basis
	desc.CategoryID = category
	desc.Name = strings.TrimSpace(genderLabel(gender) + " " + categoryLabel(category))

	if basis == RatingAge && !reference.IsZero() {
		if cutoff, label, ok := ageCutoff(category, reference); ok {
			desc.AgeCutoffDate = &cutoff
			desc.AgeCutoffLabel = label
		}
	}
	return desc
}

func validGender(code string) bool {
	switch code {
	case GenderMen, GenderWomen, GenderCoed:
		return true
	default:
		return false
	}
}

func genderLabel(code string) string {
	switch code {
	case GenderMen:
		return "Men's"
	case GenderWomen:
		return "Women's"
	default:
		return "Coed"
	}
}

func categoryLabel(category string) string {
	if years, ok := underAge(category); ok {
		return fmt.Sprintf("U%d", years)
	}
	if years, ok := plusAge(category); ok {
		return fmt.Sprintf("%d+", years)
	}
	return humanize(category)
}

// ageCutoff returns the birth-date boundary for an age category.
// "uNN": players must be born after reference minus NN years.
// "NNplus": players must be born on or before reference minus NN years.
func ageCutoff(category string, reference time.Time) (time.Time, string, bool) {
	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
	if years, ok := underAge(category); ok {
		cutoff := ref.AddDate(-years, 0, 0)
		return cutoff, fmt.Sprintf("Born after %s", cutoff.Format("2006-01-02")), true
	}
	if years, ok := plusAge(category); ok {
		cutoff := ref.AddDate(-years, 0, 0)
		return cutoff, fmt.Sprintf("Born on or before %s", cutoff.Format("2006-01-02")), true
	}
	return time.Time{}, "", false
}

func underAge(category string) (int, bool) {
	if !strings.HasPrefix(category, "u") {
		return 0, false
	}
	years, err := strconv.Atoi(category[1:])
	if err != nil || years <= 0 {
		return 0, false
	}
	return years, true
}

func plusAge(category string) (int, bool) {
	if !strings.HasSuffix(category, "plus") {
		return 0, false
	}
	years, err := strconv.Atoi(strings.TrimSuffix(category, "plus"))
	if err != nil || years <= 0 {
		return 0, false
	}
	return years, true
}

func humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
