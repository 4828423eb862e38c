package divisions

import "strings"

// FieldTags is the slice of a field the synchronizer needs.
type FieldTags struct {
	ID             string
	OrganizationID string
	Divisions      []string
}

// SyncInput is the event state a division → field map is derived from.
type SyncInput struct {
	// Fields is the event field set in display order.
	Fields []FieldTags
	// OrganizationHosted with a non-empty SelectedFieldIDs restricts
	// eligibility to that subset of the organization's fields.
	OrganizationHosted bool
	SelectedFieldIDs   []string
	Divisions          []string
	// Explicit is the caller-supplied override, possibly stale.
	Explicit map[string][]string
}

// EligibleFields returns the fields divisions may be assigned to.
func (in SyncInput) EligibleFields() []FieldTags {
	if !in.OrganizationHosted || len(in.SelectedFieldIDs) == 0 {
		return in.Fields
	}
	selected := make(map[string]struct{}, len(in.SelectedFieldIDs))
	for _, id := range in.SelectedFieldIDs {
		selected[strings.TrimSpace(id)] = struct{}{}
	}
	eligible := make([]FieldTags, 0, len(in.Fields))
	for _, field := range in.Fields {
		if _, ok := selected[field.ID]; ok {
			eligible = append(eligible, field)
		}
	}
	return eligible
}

// SyncFieldMap computes division key → eligible field ids. Explicit entries
// are filtered down to eligible fields; a missing or emptied entry is derived
// from the fields' own division tags, and if no field is tagged the division
// may use every eligible field. The result never contains a field id outside
// the eligible set.
func SyncFieldMap(in SyncInput) map[string][]string {
	eligible := in.EligibleFields()
	eligibleIDs := make(map[string]struct{}, len(eligible))
	allIDs := make([]string, 0, len(eligible))
	for _, field := range eligible {
		if _, ok := eligibleIDs[field.ID]; ok {
			continue
		}
		eligibleIDs[field.ID] = struct{}{}
		allIDs = append(allIDs, field.ID)
	}

	explicit := make(map[string][]string, len(in.Explicit))
	for key, ids := range in.Explicit {
		key = NormalizeKey(key)
		explicit[key] = append(explicit[key], ids...)
	}

	result := make(map[string][]string)
	for _, key := range NormalizeKeys(in.Divisions) {
		ids := filterIDs(explicit[key], eligibleIDs)
		if len(ids) == 0 {
			ids = taggedFieldIDs(eligible, key)
		}
		if len(ids) == 0 {
			ids = append([]string(nil), allIDs...)
		}
		result[key] = ids
	}
	return result
}

func filterIDs(ids []string, allowed map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(ids))
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := allowed[id]; !ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	return kept
}

func taggedFieldIDs(fields []FieldTags, key string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, field := range fields {
		if _, ok := seen[field.ID]; ok {
			continue
		}
		for _, tag := range field.Divisions {
			if NormalizeKey(tag) == key {
				ids = append(ids, field.ID)
				seen[field.ID] = struct{}{}
				break
			}
		}
	}
	return ids
}

// Retag rewrites the division tags of locally provisioned fields so they list
// exactly the divisions whose entry in fieldMap includes them. Organization
// fields are shared across events and keep their tags.
func Retag(fields []FieldTags, divisionKeys []string, fieldMap map[string][]string) []FieldTags {
	byField := make(map[string][]string)
	for _, key := range NormalizeKeys(divisionKeys) {
		for _, id := range fieldMap[key] {
			byField[id] = append(byField[id], key)
		}
	}

	result := make([]FieldTags, len(fields))
	for i, field := range fields {
		result[i] = field
		if field.OrganizationID != "" {
			continue
		}
		tags := byField[field.ID]
		if tags == nil {
			tags = []string{}
		}
		result[i].Divisions = tags
	}
	return result
}
