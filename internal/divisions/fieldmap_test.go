package divisions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func taggedFields() []FieldTags {
	return []FieldTags{
		{ID: "F1", Divisions: []string{"advanced"}},
		{ID: "F2", Divisions: []string{"Advanced"}},
		{ID: "F3", Divisions: []string{"beginner"}},
	}
}

func TestSyncFieldMapDerivesFromTags(t *testing.T) {
	got := SyncFieldMap(SyncInput{
		Fields:    taggedFields(),
		Divisions: []string{"advanced", "beginner"},
	})

	assert.Equal(t, []string{"F1", "F2"}, got["advanced"])
	assert.Equal(t, []string{"F3"}, got["beginner"])
}

func TestSyncFieldMapFallsBackToAllFields(t *testing.T) {
	got := SyncFieldMap(SyncInput{
		Fields:    taggedFields(),
		Divisions: []string{"intermediate"},
	})

	assert.Equal(t, []string{"F1", "F2", "F3"}, got["intermediate"])
}

func TestSyncFieldMapFiltersExplicitEntries(t *testing.T) {
	got := SyncFieldMap(SyncInput{
		Fields:    taggedFields(),
		Divisions: []string{"advanced", "beginner"},
		Explicit: map[string][]string{
			"Advanced": {"F3", "GONE", "F3"},
			"beginner": {"GONE"},
		},
	})

	assert.Equal(t, []string{"F3"}, got["advanced"])
	// every explicit id was dangling, so the entry is derived from tags
	assert.Equal(t, []string{"F3"}, got["beginner"])
}

func TestSyncFieldMapRestrictsToSelectedOrganizationFields(t *testing.T) {
	fields := []FieldTags{
		{ID: "O1", OrganizationID: "org", Divisions: []string{"advanced"}},
		{ID: "O2", OrganizationID: "org", Divisions: []string{"advanced"}},
		{ID: "O3", OrganizationID: "org"},
	}
	got := SyncFieldMap(SyncInput{
		Fields:             fields,
		OrganizationHosted: true,
		SelectedFieldIDs:   []string{"O2", "O3"},
		Divisions:          []string{"advanced", "open"},
		Explicit:           map[string][]string{"open": {"O1"}},
	})

	assert.Equal(t, []string{"O2"}, got["advanced"])
	assert.Equal(t, []string{"O2", "O3"}, got["open"])
}

func TestSyncFieldMapNeverIntroducesForeignIDs(t *testing.T) {
	got := SyncFieldMap(SyncInput{
		Fields:    taggedFields(),
		Divisions: []string{"advanced", "beginner", "open"},
		Explicit:  map[string][]string{"open": {"X", "Y"}, "advanced": {"F9"}},
	})

	members := map[string]bool{"F1": true, "F2": true, "F3": true}
	for key, ids := range got {
		for _, id := range ids {
			assert.Truef(t, members[id], "division %s got foreign field %s", key, id)
		}
	}
}

func TestRetagLeavesOrganizationFieldsAlone(t *testing.T) {
	fields := []FieldTags{
		{ID: "L1", Divisions: []string{"stale"}},
		{ID: "L2", Divisions: []string{"advanced"}},
		{ID: "O1", OrganizationID: "org", Divisions: []string{"club"}},
	}
	fieldMap := map[string][]string{
		"advanced": {"L1", "O1"},
		"beginner": {"L1"},
	}

	got := Retag(fields, []string{"advanced", "beginner"}, fieldMap)

	assert.Equal(t, []string{"advanced", "beginner"}, got[0].Divisions)
	assert.Equal(t, []string{}, got[1].Divisions)
	assert.Equal(t, []string{"club"}, got[2].Divisions)
	assert.Equal(t, []string{"stale"}, fields[0].Divisions)
}
