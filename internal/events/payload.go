package events

import (
	"strings"

	"github.com/google/uuid"

	"github.com/camka14/mvp-site/internal/divisions"
	"github.com/camka14/mvp-site/internal/timeslots"
)

const (
	TypeEvent      = "event"
	TypeTournament = "tournament"
	TypeLeague     = "league"

	StateDraft     = "draft"
	StatePublished = "published"
	StateArchived  = "archived"
)

// FieldInput is a field as the editor submits it. Fields without an id are
// provisioned locally for the event.
type FieldInput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	FieldNumber    int      `json:"fieldNumber"`
	SurfaceType    string   `json:"surfaceType"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Divisions      []string `json:"divisions"`
}

// EditPayload is the scheduling half of an event edit.
type EditPayload struct {
	Name               *string             `json:"name,omitempty"`
	State              *string             `json:"state,omitempty"`
	Fields             []FieldInput        `json:"fields"`
	SelectedFieldIDs   []string            `json:"selectedFieldIds,omitempty"`
	Divisions          []string            `json:"divisions"`
	DivisionFieldIDs   map[string][]string `json:"divisionFieldIds,omitempty"`
	TimeSlots          []timeslots.RawSlot `json:"timeSlots"`
	SingleDivision     bool                `json:"singleDivision"`
	EventType          string              `json:"eventType"`
	RegenerateSchedule *bool               `json:"regenerateSchedule,omitempty"`
}

func validEventType(value string) bool {
	switch value {
	case TypeEvent, TypeTournament, TypeLeague:
		return true
	default:
		return false
	}
}

func validState(value string) bool {
	switch value {
	case StateDraft, StatePublished, StateArchived:
		return true
	default:
		return false
	}
}

// normalizeFields trims ids, assigns ids to new local fields, drops
// duplicates and normalizes division tags.
func normalizeFields(fields []FieldInput, newID func() string) []FieldInput {
	seen := make(map[string]struct{}, len(fields))
	result := make([]FieldInput, 0, len(fields))
	for _, field := range fields {
		field.ID = strings.TrimSpace(field.ID)
		if field.ID == "" {
			field.ID = newID()
		}
		if _, ok := seen[field.ID]; ok {
			continue
		}
		seen[field.ID] = struct{}{}
		field.OrganizationID = strings.TrimSpace(field.OrganizationID)
		field.Divisions = divisions.NormalizeKeys(field.Divisions)
		result = append(result, field)
	}
	return result
}

func fieldTags(fields []FieldInput) []divisions.FieldTags {
	tags := make([]divisions.FieldTags, len(fields))
	for i, field := range fields {
		tags[i] = divisions.FieldTags{ID: field.ID, OrganizationID: field.OrganizationID, Divisions: field.Divisions}
	}
	return tags
}

func fieldIDs(fields []FieldInput) []string {
	ids := make([]string, len(fields))
	for i, field := range fields {
		ids[i] = field.ID
	}
	return ids
}

func newFieldID() string {
	return uuid.NewString()
}
