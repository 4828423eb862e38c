package conflicts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/metrics"
)

type fakeSource struct {
	rows []dbgen.ListWeeklySlotsRow
}

func (f *fakeSource) ListFieldWeeklySlots(_ context.Context, fieldID string) ([]dbgen.ListFieldWeeklySlotsRow, error) {
	var out []dbgen.ListFieldWeeklySlotsRow
	for _, row := range f.rows {
		if row.FieldID == fieldID {
			out = append(out, dbgen.ListFieldWeeklySlotsRow(row))
		}
	}
	return out, nil
}

func (f *fakeSource) ListWeeklySlots(context.Context) ([]dbgen.ListWeeklySlotsRow, error) {
	return f.rows, nil
}

func row(id, eventID string, day, start, end int, tz string) dbgen.ListWeeklySlotsRow {
	return dbgen.ListWeeklySlotsRow{
		ID:           id,
		EventID:      eventID,
		PatternID:    id,
		DayOfWeek:    int64(day),
		FieldID:      "F1",
		StartMinutes: int64(start),
		EndMinutes:   int64(end),
		Repeating:    true,
		Timezone:     tz,
		EventName:    "Event " + eventID,
	}
}

func fixedClock() time.Time {
	return time.Date(2026, time.January, 14, 12, 0, 0, 0, time.UTC)
}

func TestFindConflictsSameZone(t *testing.T) {
	src := &fakeSource{rows: []dbgen.ListWeeklySlotsRow{
		row("s1", "other", 1, 540, 600, "UTC"),
		row("s2", "other", 1, 600, 660, "UTC"),
		row("s3", "other", 2, 540, 600, "UTC"),
	}}
	m := metrics.NewMock()
	svc := NewService(src, WithMetrics(m), WithClock(fixedClock))

	found, err := svc.FindConflicts(context.Background(), Candidate{FieldID: "F1", DayOfWeek: 1, StartMinutes: 590, EndMinutes: 600, Timezone: "UTC"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "s1", found[0].SlotID)
	assert.Equal(t, "Event other", found[0].EventName)
	assert.Equal(t, 1, m.Conflicts(metrics.ScopeCrossEvent))
}

func TestFindConflictsExcludesOwnEvent(t *testing.T) {
	src := &fakeSource{rows: []dbgen.ListWeeklySlotsRow{row("s1", "mine", 1, 540, 600, "UTC")}}

	found, err := NewService(src).FindConflicts(context.Background(), Candidate{FieldID: "F1", DayOfWeek: 1, StartMinutes: 540, EndMinutes: 600, ExcludeEventID: "mine"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindConflictsShiftsTimezones(t *testing.T) {
	// Monday 20:00-21:00 in New York is Tuesday 01:00-02:00 UTC in January.
	src := &fakeSource{rows: []dbgen.ListWeeklySlotsRow{row("s1", "other", 1, 1200, 1260, "America/New_York")}}
	svc := NewService(src, WithClock(fixedClock))

	found, err := svc.FindConflicts(context.Background(), Candidate{FieldID: "F1", DayOfWeek: 2, StartMinutes: 30, EndMinutes: 90, Timezone: "UTC"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.FindConflicts(context.Background(), Candidate{FieldID: "F1", DayOfWeek: 1, StartMinutes: 1200, EndMinutes: 1260, Timezone: "UTC"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindConflictsRespectsDateWindow(t *testing.T) {
	r := row("s1", "other", 1, 540, 600, "UTC")
	r.EndDate = sql.NullTime{Time: time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), Valid: true}
	svc := NewService(&fakeSource{rows: []dbgen.ListWeeklySlotsRow{r}})

	from := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	found, err := svc.FindConflicts(context.Background(), Candidate{FieldID: "F1", DayOfWeek: 1, StartMinutes: 540, EndMinutes: 600, Window: Window{From: &from}})
	require.NoError(t, err)
	assert.Empty(t, found)

	from = time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	found, err = svc.FindConflicts(context.Background(), Candidate{FieldID: "F1", DayOfWeek: 1, StartMinutes: 540, EndMinutes: 600, Window: Window{From: &from}})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestFindConflictsRejectsEmptyCandidate(t *testing.T) {
	_, err := NewService(&fakeSource{}).FindConflicts(context.Background(), Candidate{FieldID: "F1", StartMinutes: 600, EndMinutes: 600})
	assert.Error(t, err)
}

func TestSweepReportsCrossEventPairs(t *testing.T) {
	src := &fakeSource{rows: []dbgen.ListWeeklySlotsRow{
		row("a1", "a", 3, 540, 600, "UTC"),
		row("a2", "a", 3, 570, 630, "UTC"),
		row("b1", "b", 3, 590, 650, "UTC"),
		row("c1", "c", 3, 650, 700, "UTC"),
	}}
	m := metrics.NewMock()

	pairs, err := NewService(src, WithMetrics(m), WithClock(fixedClock)).Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "a1", pairs[0].A.SlotID)
	assert.Equal(t, "b1", pairs[0].B.SlotID)
	assert.Equal(t, "a2", pairs[1].A.SlotID)
	assert.Equal(t, "b1", pairs[1].B.SlotID)
	assert.Equal(t, 2, m.Conflicts(metrics.ScopeSweep))
}

func TestWeeklyOverlapWrapsAroundWeek(t *testing.T) {
	// Saturday 23:30 to Sunday 00:30 against Sunday 00:00-00:15.
	satStart := 6*1440 + 1410
	assert.True(t, weeklyOverlap(satStart, satStart+60, 0, 15))
	assert.False(t, weeklyOverlap(satStart, satStart+30, 0, 15))
}
