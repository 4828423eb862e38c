package leagues

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbgen "github.com/camka14/mvp-site/internal/db/generated"
)

type fakeSource struct {
	event dbgen.Event
	teams []dbgen.Team
	slots []dbgen.TimeSlot
	err   error
}

func (f *fakeSource) GetEvent(_ context.Context, id string) (dbgen.Event, error) {
	if f.err != nil {
		return dbgen.Event{}, f.err
	}
	if f.event.ID != id {
		return dbgen.Event{}, sql.ErrNoRows
	}
	return f.event, nil
}

func (f *fakeSource) ListEventTeams(context.Context, string) ([]dbgen.Team, error) {
	return f.teams, nil
}

func (f *fakeSource) ListEventTimeSlots(context.Context, string) ([]dbgen.TimeSlot, error) {
	return f.slots, nil
}

func leagueSource(end sql.NullTime, teamCount int, division string) *fakeSource {
	src := &fakeSource{
		event: dbgen.Event{
			ID:        "evt-1",
			EventType: "league",
			StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			EndDate:   end,
			Timezone:  "UTC",
		},
		slots: []dbgen.TimeSlot{{
			ID:           "slot-1",
			EventID:      "evt-1",
			DayOfWeek:    int64(time.Monday),
			FieldID:      "F1",
			StartMinutes: 18 * 60,
			EndMinutes:   20 * 60,
			Repeating:    true,
			Divisions:    `["open"]`,
		}},
	}
	for i := 0; i < teamCount; i++ {
		src.teams = append(src.teams, dbgen.Team{
			ID:          string(rune('A' + i)),
			EventID:     "evt-1",
			DivisionKey: division,
			Status:      "active",
		})
	}
	return src
}

func endOn(year int, month time.Month, day int) sql.NullTime {
	return sql.NullTime{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

func TestBuildRoundRobinPairs(t *testing.T) {
	pairs := buildRoundRobinPairs([]string{"A", "B", "C", "D"})
	require.Len(t, pairs, 6)

	seen := make(map[string]bool)
	for _, pair := range pairs {
		a, b := pair.HomeTeamID, pair.AwayTeamID
		if a > b {
			a, b = b, a
		}
		key := a + b
		if seen[key] {
			t.Fatalf("pair %s scheduled twice", key)
		}
		seen[key] = true
		assert.GreaterOrEqual(t, pair.Round, 1)
		assert.LessOrEqual(t, pair.Round, 3)
	}

	assert.Len(t, buildRoundRobinPairs([]string{"A", "B", "C", "D", "E"}), 10)
}

func TestGenerateFillsWeeklyWindows(t *testing.T) {
	gen := NewGenerator(leagueSource(endOn(2026, time.January, 25), 4, "Open"), Options{MatchDuration: time.Hour})

	matches, err := gen.Generate(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, matches, 6)

	first := matches[0]
	assert.Equal(t, "evt-1", first.EventID)
	assert.Equal(t, "open", first.DivisionKey)
	assert.Equal(t, "F1", first.FieldID)
	assert.Equal(t, 1, first.Round)
	assert.True(t, first.StartTime.Equal(time.Date(2026, time.January, 5, 18, 0, 0, 0, time.UTC)))
	assert.True(t, first.EndTime.Equal(time.Date(2026, time.January, 5, 19, 0, 0, 0, time.UTC)))

	last := matches[len(matches)-1]
	assert.True(t, last.StartTime.Equal(time.Date(2026, time.January, 19, 19, 0, 0, 0, time.UTC)))
}

func TestGenerateReportsInsufficientSlots(t *testing.T) {
	gen := NewGenerator(leagueSource(endOn(2026, time.January, 18), 4, "open"), Options{MatchDuration: time.Hour})

	_, err := gen.Generate(context.Background(), "evt-1")

	var schedErr *ScheduleError
	require.True(t, errors.As(err, &schedErr))
	assert.Equal(t, CodeInsufficientSlots, schedErr.Code)
}

func TestGenerateUsesHorizonForOpenEndedEvents(t *testing.T) {
	gen := NewGenerator(leagueSource(sql.NullTime{}, 3, "open"), Options{MatchDuration: time.Hour, HorizonWeeks: 2})

	matches, err := gen.Generate(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	horizon := time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC)
	for _, match := range matches {
		assert.True(t, match.StartTime.Before(horizon))
	}
}

func TestGenerateSkipsSlotsForOtherDivisions(t *testing.T) {
	gen := NewGenerator(leagueSource(endOn(2026, time.March, 1), 2, "beginner"), Options{MatchDuration: time.Hour})

	_, err := gen.Generate(context.Background(), "evt-1")

	var schedErr *ScheduleError
	require.True(t, errors.As(err, &schedErr))
	assert.Equal(t, CodeInsufficientSlots, schedErr.Code)
}

func TestGenerateSingleDivisionPoolsTeams(t *testing.T) {
	src := leagueSource(endOn(2026, time.January, 25), 2, "beginner")
	src.event.SingleDivision = true
	src.teams = append(src.teams, dbgen.Team{ID: "Z", EventID: "evt-1", DivisionKey: "advanced", Status: "active"})

	matches, err := NewGenerator(src, Options{MatchDuration: time.Hour}).Generate(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestGenerateRejects(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		id   string
		code string
	}{
		{name: "missing event", src: leagueSource(sql.NullTime{}, 4, "open"), id: "nope", code: CodeEventNotFound},
		{name: "plain event", src: func() *fakeSource {
			src := leagueSource(sql.NullTime{}, 4, "open")
			src.event.EventType = "event"
			return src
		}(), id: "evt-1", code: CodeUnsupportedEvent},
		{name: "no slots", src: func() *fakeSource {
			src := leagueSource(sql.NullTime{}, 4, "open")
			src.slots = nil
			return src
		}(), id: "evt-1", code: CodeNoTimeSlots},
		{name: "one team", src: leagueSource(sql.NullTime{}, 1, "open"), id: "evt-1", code: CodeInsufficientTeams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.src, Options{}).Generate(context.Background(), tt.id)
			var schedErr *ScheduleError
			require.True(t, errors.As(err, &schedErr), "got %v", err)
			assert.Equal(t, tt.code, schedErr.Code)
		})
	}
}

func TestGeneratePassesThroughStorageErrors(t *testing.T) {
	src := leagueSource(sql.NullTime{}, 4, "open")
	src.err = errors.New("disk on fire")

	_, err := NewGenerator(src, Options{}).Generate(context.Background(), "evt-1")

	require.Error(t, err)
	var schedErr *ScheduleError
	assert.False(t, errors.As(err, &schedErr))
}
