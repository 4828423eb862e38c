package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camka14/mvp-site/internal/db"
	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/leagues"
	"github.com/camka14/mvp-site/internal/metrics"
	"github.com/camka14/mvp-site/internal/testutil"
	"github.com/camka14/mvp-site/internal/timeslots"
)

var testStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	matches []leagues.ScheduledMatch
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, eventID string) ([]leagues.ScheduledMatch, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	out := make([]leagues.ScheduledMatch, len(g.matches))
	copy(out, g.matches)
	for i := range out {
		out[i].EventID = eventID
	}
	return out, nil
}

func (g *fakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type harness struct {
	db        *db.DB
	metrics   *metrics.Mock
	generator *fakeGenerator
	rec       *Reconciler
	ids       int
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		db:        testutil.NewTestDB(t),
		metrics:   metrics.NewMock(),
		generator: &fakeGenerator{},
	}
	opts.Now = func() time.Time { return testStart }
	opts.NewID = func() string {
		h.ids++
		return fmt.Sprintf("gen-%d", h.ids)
	}
	h.rec = NewReconciler(h.db, h.generator, h.metrics, opts)
	return h
}

func (h *harness) createEvent(t *testing.T, id, eventType, state string, orgID string) dbgen.Event {
	t.Helper()
	event, err := h.db.Queries.CreateEvent(context.Background(), dbgen.CreateEventParams{
		ID:               id,
		Name:             "Event " + id,
		EventType:        eventType,
		State:            state,
		OrganizationID:   sql.NullString{String: orgID, Valid: orgID != ""},
		HostID:           "host-1",
		StartDate:        testStart,
		Timezone:         "UTC",
		DivisionFieldMap: "{}",
	})
	require.NoError(t, err)
	return event
}

func (h *harness) createOrganization(t *testing.T, id string) {
	t.Helper()
	_, err := h.db.ExecContext(context.Background(), `INSERT INTO organizations (id, name) VALUES (?, ?)`, id, "Org "+id)
	require.NoError(t, err)
}

func boolPtr(v bool) *bool       { return &v }
func strPtr(v string) *string    { return &v }
func slotDays(days ...int) []int { return days }

func basePayload() EditPayload {
	return EditPayload{
		EventType: TypeLeague,
		Fields: []FieldInput{
			{ID: "F1", Name: "Field 1", FieldNumber: 1, Divisions: []string{"advanced"}},
			{ID: "F2", Name: "Field 2", FieldNumber: 2, Divisions: []string{"Advanced"}},
		},
		Divisions: []string{"Advanced", "beginner"},
		TimeSlots: []timeslots.RawSlot{{
			ID:                "p1",
			DaysOfWeek:        slotDays(1, 3),
			ScheduledFieldIDs: []string{"F1", "F2"},
			Divisions:         []string{"advanced"},
			StartTimeMinutes:  540,
			EndTimeMinutes:    600,
			Repeating:         true,
		}},
	}
}

func slotIDs(t *testing.T, database *db.DB, eventID string) []string {
	t.Helper()
	rows, err := database.Queries.ListEventTimeSlots(context.Background(), eventID)
	require.NoError(t, err)
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids
}

func TestReconcilePersistsFanOut(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")

	result, err := h.rec.Reconcile(context.Background(), "evt-1", basePayload())
	require.NoError(t, err)

	assert.Equal(t, PhaseCommitted, result.Phase)
	assert.Equal(t, []string{"F1", "F2"}, result.FieldIDs)
	assert.ElementsMatch(t, []string{"p1__d1__fF1", "p1__d1__fF2", "p1__d3__fF1", "p1__d3__fF2"}, slotIDs(t, h.db, "evt-1"))
	assert.Equal(t, map[string][]string{"advanced": {"F1", "F2"}, "beginner": {"F1", "F2"}}, result.DivisionFieldMap)

	divs, err := h.db.Queries.ListEventDivisions(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, divs, 2)
	assert.Equal(t, "evt-1__division__advanced", divs[0].ID)
	assert.Equal(t, "Advanced", divs[0].Name)
	assert.JSONEq(t, `["F1","F2"]`, divs[0].FieldIds)

	linked, err := h.db.Queries.ListEventFieldIDs(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"F1", "F2"}, linked)

	field, err := h.db.Queries.GetField(context.Background(), "F1")
	require.NoError(t, err)
	assert.JSONEq(t, `["advanced","beginner"]`, field.Divisions)

	assert.Nil(t, result.Regeneration)
	assert.Equal(t, 0, h.generator.Calls())
	assert.Equal(t, 1, h.metrics.Reconciles(metrics.OutcomeCommitted))
	written, _ := h.metrics.SlotRows()
	assert.Equal(t, 4, written)
}

func TestReconcileIsIdempotent(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")

	_, err := h.rec.Reconcile(context.Background(), "evt-1", basePayload())
	require.NoError(t, err)
	first := slotIDs(t, h.db, "evt-1")

	result, err := h.rec.Reconcile(context.Background(), "evt-1", basePayload())
	require.NoError(t, err)

	assert.Equal(t, first, slotIDs(t, h.db, "evt-1"))
	assert.Equal(t, 0, result.DeletedSlotRows)
}

func TestReconcileDeletesStaleRows(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")

	_, err := h.rec.Reconcile(context.Background(), "evt-1", basePayload())
	require.NoError(t, err)

	payload := basePayload()
	payload.TimeSlots[0].DaysOfWeek = slotDays(1)
	payload.TimeSlots[0].ScheduledFieldIDs = []string{"F2"}
	payload.Divisions = []string{"advanced"}

	result, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, slotIDs(t, h.db, "evt-1"))
	assert.Equal(t, 4, result.DeletedSlotRows)

	divs, err := h.db.Queries.ListEventDivisions(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, divs, 1)
	assert.Equal(t, "advanced", divs[0].DivisionKey)
}

func TestReconcileSingleDivisionStampsEveryRow(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")

	payload := basePayload()
	payload.SingleDivision = true
	payload.TimeSlots[0].Divisions = nil

	_, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)

	rows, err := h.db.Queries.ListEventTimeSlots(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.JSONEq(t, `["advanced","beginner"]`, row.Divisions)
	}
}

func TestReconcileFieldRemoval(t *testing.T) {
	h := newHarness(t, Options{})
	h.createOrganization(t, "org-1")
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")
	ctx := context.Background()

	payload := basePayload()
	payload.Fields = append(payload.Fields, FieldInput{ID: "O1", Name: "Club court", OrganizationID: "org-1", Divisions: []string{"club"}})
	payload.TimeSlots = append(payload.TimeSlots, timeslots.RawSlot{
		ID:                "p2",
		DaysOfWeek:        slotDays(5),
		ScheduledFieldIDs: []string{"O1", "F1"},
		Divisions:         []string{"beginner"},
		StartTimeMinutes:  600,
		EndTimeMinutes:    660,
	})
	_, err := h.rec.Reconcile(ctx, "evt-1", payload)
	require.NoError(t, err)

	for i, fieldID := range []string{"F1", "F2", "O1"} {
		_, err := h.db.Queries.CreateMatch(ctx, dbgen.CreateMatchParams{
			ID:          fmt.Sprintf("m%d", i),
			EventID:     "evt-1",
			FieldID:     sql.NullString{String: fieldID, Valid: true},
			DivisionKey: "advanced",
			Round:       1,
			StartTime:   testStart.Add(time.Duration(i) * time.Hour),
			EndTime:     testStart.Add(time.Duration(i+1) * time.Hour),
			Status:      "scheduled",
		})
		require.NoError(t, err)
	}

	edit := basePayload()
	edit.Fields = edit.Fields[1:]
	edit.TimeSlots[0].ScheduledFieldIDs = []string{"F2"}
	result, err := h.rec.Reconcile(ctx, "evt-1", edit)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"F1", "O1"}, result.RemovedFieldIDs)
	assert.Equal(t, int64(2), result.DeletedMatches)

	matches, err := h.db.Queries.ListEventMatches(ctx, "evt-1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "F2", matches[0].FieldID.String)

	_, err = h.db.Queries.GetField(ctx, "F1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	org, err := h.db.Queries.GetField(ctx, "O1")
	require.NoError(t, err)
	assert.JSONEq(t, `["club"]`, org.Divisions)

	assert.ElementsMatch(t, []string{"p1__d1__fF2", "p1__d3__fF2"}, slotIDs(t, h.db, "evt-1"))
}

func TestReconcileRejectsInvalidSlots(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")

	payload := basePayload()
	payload.State = strPtr("paused")
	payload.TimeSlots = append(payload.TimeSlots,
		timeslots.RawSlot{ID: "p2", DaysOfWeek: slotDays(1), ScheduledFieldIDs: []string{"F1"}, Divisions: []string{"advanced"}, StartTimeMinutes: 590, EndTimeMinutes: 650},
		timeslots.RawSlot{ID: "p3", DaysOfWeek: slotDays(2), ScheduledFieldIDs: []string{"F1", "GONE"}, Divisions: []string{"advanced"}, StartTimeMinutes: 0, EndTimeMinutes: 60},
	)

	_, err := h.rec.Reconcile(context.Background(), "evt-1", payload)

	var vErr *timeslots.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "overlaps with time slot 2", vErr.FieldErrors["timeSlots[0].startTimeMinutes"])
	assert.Equal(t, "overlaps with time slot 1", vErr.FieldErrors["timeSlots[1].startTimeMinutes"])
	assert.Equal(t, "field GONE is no longer part of this event", vErr.FieldErrors["timeSlots[2].scheduledFieldIds"])
	assert.Contains(t, vErr.FieldErrors, "state")

	assert.Empty(t, slotIDs(t, h.db, "evt-1"))
	assert.Equal(t, 1, h.metrics.Reconciles(metrics.OutcomeInvalid))
	assert.Equal(t, 2, h.metrics.Conflicts(metrics.ScopeIntraForm))
}

func TestReconcileUnknownEvent(t *testing.T) {
	h := newHarness(t, Options{})

	_, err := h.rec.Reconcile(context.Background(), "missing", basePayload())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestReconcileRollsBackEveryStep(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")
	ctx := context.Background()

	_, err := h.rec.Reconcile(ctx, "evt-1", basePayload())
	require.NoError(t, err)
	before := slotIDs(t, h.db, "evt-1")

	_, err = h.db.ExecContext(ctx, `CREATE TRIGGER fail_division_upsert BEFORE INSERT ON divisions
BEGIN
    SELECT RAISE(ABORT, 'division writes disabled');
END;`)
	require.NoError(t, err)

	edit := basePayload()
	edit.Name = strPtr("Renamed")
	edit.Fields = append(edit.Fields, FieldInput{ID: "F3", Name: "Field 3"})
	edit.TimeSlots[0].ScheduledFieldIDs = []string{"F3"}

	_, err = h.rec.Reconcile(ctx, "evt-1", edit)

	var rErr *ReconcileError
	require.True(t, errors.As(err, &rErr), "got %v", err)
	assert.Equal(t, StepSyncDivisions, rErr.Step)

	event, err := h.db.Queries.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Event evt-1", event.Name)

	_, err = h.db.Queries.GetField(ctx, "F3")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	linked, err := h.db.Queries.ListEventFieldIDs(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"F1", "F2"}, linked)
	assert.Equal(t, before, slotIDs(t, h.db, "evt-1"))
	assert.Equal(t, 1, h.metrics.Reconciles(metrics.OutcomeRolledBack))
}

func seedOtherEvent(t *testing.T, h *harness) {
	t.Helper()
	h.createOrganization(t, "org-1")
	h.createEvent(t, "other", TypeLeague, StatePublished, "org-1")
	_, err := h.rec.Reconcile(context.Background(), "other", EditPayload{
		Fields:    []FieldInput{{ID: "O1", Name: "Court 1", OrganizationID: "org-1"}},
		Divisions: []string{"open"},
		TimeSlots: []timeslots.RawSlot{{
			ID:                "other-slot",
			DaysOfWeek:        slotDays(1),
			ScheduledFieldIDs: []string{"O1"},
			Divisions:         []string{"open"},
			StartTimeMinutes:  560,
			EndTimeMinutes:    620,
			Repeating:         true,
		}},
	})
	require.NoError(t, err)
}

func sharedFieldPayload() EditPayload {
	return EditPayload{
		Fields:    []FieldInput{{ID: "O1", Name: "Court 1", OrganizationID: "org-1"}},
		Divisions: []string{"open"},
		TimeSlots: []timeslots.RawSlot{{
			ID:                "mine",
			DaysOfWeek:        slotDays(1),
			ScheduledFieldIDs: []string{"O1"},
			Divisions:         []string{"open"},
			StartTimeMinutes:  540,
			EndTimeMinutes:    600,
			Repeating:         true,
		}},
	}
}

func TestReconcileStrictModeRejectsCrossEventOverlap(t *testing.T) {
	h := newHarness(t, Options{RejectCrossEventConflicts: true})
	seedOtherEvent(t, h)
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "org-1")

	_, err := h.rec.Reconcile(context.Background(), "evt-1", sharedFieldPayload())

	require.ErrorIs(t, err, ErrCrossEventConflict)
	var rErr *ReconcileError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, StepCheckConflicts, rErr.Step)
	var cErr *ConflictError
	require.True(t, errors.As(err, &cErr))
	require.Len(t, cErr.Conflicts, 1)
	assert.Equal(t, "other", cErr.Conflicts[0].EventID)
	assert.Empty(t, slotIDs(t, h.db, "evt-1"))
}

func TestReconcileBestEffortModeCommitsCrossEventOverlap(t *testing.T) {
	h := newHarness(t, Options{})
	seedOtherEvent(t, h)
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "org-1")

	_, err := h.rec.Reconcile(context.Background(), "evt-1", sharedFieldPayload())
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, slotIDs(t, h.db, "evt-1"))
}

func generatedMatches() []leagues.ScheduledMatch {
	return []leagues.ScheduledMatch{{
		DivisionKey: "advanced",
		Round:       1,
		FieldID:     "F1",
		StartTime:   testStart.Add(9 * time.Hour),
		EndTime:     testStart.Add(10 * time.Hour),
	}}
}

func TestReconcileRegeneratesOnPublish(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")
	h.generator.matches = generatedMatches()

	payload := basePayload()
	payload.State = strPtr(StatePublished)
	result, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)

	require.NotNil(t, result.Regeneration)
	assert.Nil(t, result.Regeneration.Error)
	assert.Equal(t, 1, result.Regeneration.Matches)
	assert.Equal(t, 1, h.generator.Calls())

	matches, err := h.db.Queries.ListEventMatches(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "F1", matches[0].FieldID.String)
	assert.Equal(t, 1, h.metrics.Regenerations(metrics.RegenerationGenerated))
}

func TestReconcileRoutineLeagueEditSkipsRegeneration(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StatePublished, "")

	payload := basePayload()
	payload.Name = strPtr("Spring league")
	result, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)

	assert.Nil(t, result.Regeneration)
	assert.Equal(t, 0, h.generator.Calls())
	assert.Equal(t, "Spring league", result.Event.Name)
	assert.Equal(t, 1, h.metrics.Regenerations(metrics.RegenerationSkipped))
}

func TestReconcileExplicitRegenerationFlag(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StatePublished, "")

	payload := basePayload()
	payload.RegenerateSchedule = boolPtr(true)
	_, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)
	assert.Equal(t, 1, h.generator.Calls())

	h.createEvent(t, "evt-2", TypeLeague, StateDraft, "")
	payload.State = strPtr(StatePublished)
	payload.RegenerateSchedule = boolPtr(false)
	_, err = h.rec.Reconcile(context.Background(), "evt-2", payload)
	require.NoError(t, err)
	assert.Equal(t, 1, h.generator.Calls())
}

func TestReconcileSurfacesRegenerationFailure(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")
	h.generator.err = &leagues.ScheduleError{Code: leagues.CodeInsufficientTeams, Message: "at least two active teams in a division are required"}

	payload := basePayload()
	payload.RegenerateSchedule = boolPtr(true)
	result, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)

	require.NotNil(t, result.Regeneration)
	require.NotNil(t, result.Regeneration.Error)
	assert.Equal(t, leagues.CodeInsufficientTeams, result.Regeneration.Error.Code)
	assert.Len(t, slotIDs(t, h.db, "evt-1"), 4)
	assert.Equal(t, 1, h.metrics.Regenerations(metrics.RegenerationFailed))
}

func TestReconcileNonLeagueNeverRegenerates(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-1", TypeEvent, StateDraft, "")

	payload := basePayload()
	payload.EventType = TypeEvent
	payload.State = strPtr(StatePublished)
	payload.RegenerateSchedule = boolPtr(true)
	result, err := h.rec.Reconcile(context.Background(), "evt-1", payload)
	require.NoError(t, err)
	assert.Nil(t, result.Regeneration)
	assert.Equal(t, 0, h.generator.Calls())
}

func singleFieldPayload(fieldID string) EditPayload {
	return EditPayload{
		EventType: TypeEvent,
		Fields:    []FieldInput{{ID: fieldID, Name: "Field " + fieldID, FieldNumber: 1}},
		Divisions: []string{"open"},
		TimeSlots: []timeslots.RawSlot{{
			ID:                "slot-1",
			DaysOfWeek:        slotDays(1),
			ScheduledFieldIDs: []string{fieldID},
			Divisions:         []string{"open"},
			StartTimeMinutes:  540,
			EndTimeMinutes:    600,
			Repeating:         true,
		}},
	}
}

func TestReconcileRejectsSlotIDOwnedByAnotherEvent(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-a", TypeEvent, StateDraft, "")
	h.createEvent(t, "evt-b", TypeEvent, StateDraft, "")
	ctx := context.Background()

	_, err := h.rec.Reconcile(ctx, "evt-a", singleFieldPayload("FA"))
	require.NoError(t, err)
	require.Equal(t, []string{"slot-1"}, slotIDs(t, h.db, "evt-a"))

	_, err = h.rec.Reconcile(ctx, "evt-b", singleFieldPayload("FB"))
	require.ErrorIs(t, err, ErrIDInUse)
	var rErr *ReconcileError
	require.True(t, errors.As(err, &rErr), "got %v", err)
	assert.Equal(t, StepSyncSlots, rErr.Step)

	assert.Equal(t, []string{"slot-1"}, slotIDs(t, h.db, "evt-a"))
	assert.Empty(t, slotIDs(t, h.db, "evt-b"))

	rows, err := h.db.Queries.ListEventTimeSlots(ctx, "evt-a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "FA", rows[0].FieldID)
}

func TestReconcileRejectsLocalFieldOfAnotherEvent(t *testing.T) {
	h := newHarness(t, Options{})
	h.createEvent(t, "evt-a", TypeLeague, StateDraft, "")
	h.createEvent(t, "evt-b", TypeLeague, StateDraft, "")
	ctx := context.Background()

	_, err := h.rec.Reconcile(ctx, "evt-a", basePayload())
	require.NoError(t, err)

	hijack := basePayload()
	hijack.Fields[0].Name = "Renamed"
	hijack.TimeSlots[0].ID = "other"
	_, err = h.rec.Reconcile(ctx, "evt-b", hijack)
	require.ErrorIs(t, err, ErrIDInUse)
	var rErr *ReconcileError
	require.True(t, errors.As(err, &rErr), "got %v", err)
	assert.Equal(t, StepUpsertFields, rErr.Step)

	field, err := h.db.Queries.GetField(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, "Field 1", field.Name)

	linked, err := h.db.Queries.ListEventFieldIDs(ctx, "evt-b")
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestReconcileKeepsOrganizationOwnership(t *testing.T) {
	h := newHarness(t, Options{})
	h.createOrganization(t, "org-1")
	h.createEvent(t, "evt-1", TypeLeague, StateDraft, "")
	ctx := context.Background()

	first := basePayload()
	first.Fields = append(first.Fields, FieldInput{ID: "O1", Name: "Club court", OrganizationID: "org-1", Divisions: []string{"club"}})
	_, err := h.rec.Reconcile(ctx, "evt-1", first)
	require.NoError(t, err)

	resent := basePayload()
	resent.Fields = append(resent.Fields, FieldInput{ID: "O1", Name: "Club court", Divisions: []string{"beginner"}})
	_, err = h.rec.Reconcile(ctx, "evt-1", resent)
	require.NoError(t, err)

	org, err := h.db.Queries.GetField(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "org-1", Valid: true}, org.OrganizationID)
	assert.JSONEq(t, `["club"]`, org.Divisions)

	result, err := h.rec.Reconcile(ctx, "evt-1", basePayload())
	require.NoError(t, err)
	assert.Equal(t, []string{"O1"}, result.RemovedFieldIDs)

	org, err = h.db.Queries.GetField(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "org-1", org.OrganizationID.String)
}
