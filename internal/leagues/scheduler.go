// Package leagues generates round-robin match schedules onto an event's
// persisted weekly time slots.
package leagues

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/divisions"
)

const (
	CodeEventNotFound     = "event_not_found"
	CodeUnsupportedEvent  = "unsupported_event_type"
	CodeInsufficientTeams = "insufficient_teams"
	CodeNoTimeSlots       = "no_time_slots"
	CodeInsufficientSlots = "insufficient_slots"
)

// ScheduleError is a generation failure the caller can show to the organizer.
type ScheduleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func scheduleErrorf(code, format string, args ...any) *ScheduleError {
	return &ScheduleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

type ScheduledMatch struct {
	EventID     string    `json:"eventId"`
	DivisionKey string    `json:"divisionKey"`
	Round       int       `json:"round"`
	HomeTeamID  string    `json:"homeTeamId"`
	AwayTeamID  string    `json:"awayTeamId"`
	FieldID     string    `json:"fieldId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// Source is the read side the generator needs; *dbgen.Queries satisfies it.
type Source interface {
	GetEvent(ctx context.Context, id string) (dbgen.Event, error)
	ListEventTeams(ctx context.Context, eventID string) ([]dbgen.Team, error)
	ListEventTimeSlots(ctx context.Context, eventID string) ([]dbgen.TimeSlot, error)
}

type Options struct {
	MatchDuration time.Duration
	// HorizonWeeks bounds generation for events without an end date.
	HorizonWeeks    int
	DefaultLocation *time.Location
}

type Generator struct {
	source Source
	opts   Options
}

func NewGenerator(source Source, opts Options) *Generator {
	if opts.MatchDuration <= 0 {
		opts.MatchDuration = time.Hour
	}
	if opts.HorizonWeeks <= 0 {
		opts.HorizonWeeks = 12
	}
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = time.UTC
	}
	return &Generator{source: source, opts: opts}
}

// Generate builds a round-robin schedule per division for eventID, placing
// each match on the earliest free window of a time slot that serves the
// division.
func (g *Generator) Generate(ctx context.Context, eventID string) ([]ScheduledMatch, error) {
	event, err := g.source.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, scheduleErrorf(CodeEventNotFound, "event %s not found", eventID)
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event.EventType != "league" && event.EventType != "tournament" {
		return nil, scheduleErrorf(CodeUnsupportedEvent, "%s events do not have generated schedules", event.EventType)
	}

	teams, err := g.source.ListEventTeams(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	rows, err := g.source.ListEventTimeSlots(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load time slots: %w", err)
	}
	if len(rows) == 0 {
		return nil, scheduleErrorf(CodeNoTimeSlots, "no time slots are configured")
	}

	loc := g.location(event.Timezone)
	startDate := truncateDate(event.StartDate.In(loc))
	endDate := startDate.AddDate(0, 0, 7*g.opts.HorizonWeeks-1)
	if event.EndDate.Valid {
		endDate = truncateDate(event.EndDate.Time.In(loc))
	}
	if endDate.Before(startDate) {
		return nil, scheduleErrorf(CodeNoTimeSlots, "event ends before it starts")
	}

	windows := buildMatchWindows(rows, startDate, endDate, loc, g.opts.MatchDuration)
	if len(windows) == 0 {
		return nil, scheduleErrorf(CodeNoTimeSlots, "no available match windows in the event date range")
	}

	return assignMatches(eventID, groupTeams(teams, event.SingleDivision), windows, event.SingleDivision)
}

func (g *Generator) location(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return g.opts.DefaultLocation
}

type teamGroup struct {
	DivisionKey string
	TeamIDs     []string
}

// groupTeams buckets active teams by division in key order. Single-division
// events play everyone in one pool.
func groupTeams(teams []dbgen.Team, singleDivision bool) []teamGroup {
	byKey := make(map[string][]string)
	for _, team := range teams {
		if team.Status != "" && team.Status != "active" {
			continue
		}
		key := divisions.NormalizeKey(team.DivisionKey)
		if singleDivision {
			key = ""
		}
		byKey[key] = append(byKey[key], team.ID)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]teamGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, teamGroup{DivisionKey: key, TeamIDs: byKey[key]})
	}
	return groups
}

func assignMatches(eventID string, groups []teamGroup, windows []matchWindow, singleDivision bool) ([]ScheduledMatch, error) {
	used := make([]bool, len(windows))
	var schedule []ScheduledMatch

	scheduled := 0
	for _, group := range groups {
		if len(group.TeamIDs) < 2 {
			continue
		}
		pairs := buildRoundRobinPairs(group.TeamIDs)

		next := 0
		for _, pairing := range pairs {
			for next < len(windows) && (used[next] || !windows[next].serves(group.DivisionKey, singleDivision)) {
				next++
			}
			if next == len(windows) {
				return nil, scheduleErrorf(CodeInsufficientSlots, "division %q needs %d matches but only %d fit in its time slots", group.DivisionKey, len(pairs), countPlaced(schedule, group.DivisionKey))
			}
			window := windows[next]
			used[next] = true
			schedule = append(schedule, ScheduledMatch{
				EventID:     eventID,
				DivisionKey: group.DivisionKey,
				Round:       pairing.Round,
				HomeTeamID:  pairing.HomeTeamID,
				AwayTeamID:  pairing.AwayTeamID,
				FieldID:     window.FieldID,
				StartTime:   window.Start,
				EndTime:     window.End,
			})
		}
		scheduled++
	}

	if scheduled == 0 {
		return nil, scheduleErrorf(CodeInsufficientTeams, "at least two active teams in a division are required")
	}
	return schedule, nil
}

func countPlaced(schedule []ScheduledMatch, divisionKey string) int {
	count := 0
	for _, match := range schedule {
		if match.DivisionKey == divisionKey {
			count++
		}
	}
	return count
}

type roundPair struct {
	Round      int
	HomeTeamID string
	AwayTeamID string
}

// buildRoundRobinPairs uses the circle method; an odd team count gets a bye
// each round.
func buildRoundRobinPairs(teamIDs []string) []roundPair {
	working := make([]string, len(teamIDs), len(teamIDs)+1)
	copy(working, teamIDs)
	if len(working)%2 == 1 {
		working = append(working, "")
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			home := working[i]
			away := working[len(working)-1-i]
			if home == "" || away == "" {
				continue
			}
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, roundPair{
				Round:      round + 1,
				HomeTeamID: home,
				AwayTeamID: away,
			})
		}
		rotateTeams(working)
	}

	return pairs
}

func rotateTeams(teams []string) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}

type matchWindow struct {
	FieldID   string
	Start     time.Time
	End       time.Time
	Divisions []string
}

func (w matchWindow) serves(divisionKey string, singleDivision bool) bool {
	if singleDivision || len(w.Divisions) == 0 {
		return true
	}
	for _, key := range w.Divisions {
		if key == divisionKey {
			return true
		}
	}
	return false
}

// buildMatchWindows cuts every slot occurrence between startDate and endDate
// into back-to-back windows of matchDuration, ordered by start then field.
// Non-repeating slots without date bounds only run in the first week.
func buildMatchWindows(rows []dbgen.TimeSlot, startDate, endDate time.Time, loc *time.Location, matchDuration time.Duration) []matchWindow {
	firstWeekEnd := startDate.AddDate(0, 0, 7)

	var windows []matchWindow
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		for _, row := range rows {
			if int(row.DayOfWeek) != int(date.Weekday()) {
				continue
			}
			if !occursOn(row, date, firstWeekEnd) {
				continue
			}
			var rowDivisions []string
			if err := json.Unmarshal([]byte(row.Divisions), &rowDivisions); err != nil {
				rowDivisions = nil
			}

			dayOpen := time.Date(date.Year(), date.Month(), date.Day(), 0, int(row.StartMinutes), 0, 0, loc)
			dayClose := time.Date(date.Year(), date.Month(), date.Day(), 0, int(row.EndMinutes), 0, 0, loc)
			for start := dayOpen; !start.Add(matchDuration).After(dayClose); start = start.Add(matchDuration) {
				windows = append(windows, matchWindow{
					FieldID:   row.FieldID,
					Start:     start,
					End:       start.Add(matchDuration),
					Divisions: divisions.NormalizeKeys(rowDivisions),
				})
			}
		}
	}

	sort.SliceStable(windows, func(i, j int) bool {
		if !windows[i].Start.Equal(windows[j].Start) {
			return windows[i].Start.Before(windows[j].Start)
		}
		return windows[i].FieldID < windows[j].FieldID
	})
	return windows
}

// occursOn treats slot date bounds as calendar dates in the event timezone.
func occursOn(row dbgen.TimeSlot, date, firstWeekEnd time.Time) bool {
	if row.StartDate.Valid && date.Before(calendarDate(row.StartDate.Time, date.Location())) {
		return false
	}
	if row.EndDate.Valid && date.After(calendarDate(row.EndDate.Time, date.Location())) {
		return false
	}
	if !row.Repeating && !row.StartDate.Valid && !row.EndDate.Valid {
		return date.Before(firstWeekEnd)
	}
	return true
}

func truncateDate(value time.Time) time.Time {
	return calendarDate(value, value.Location())
}

func calendarDate(value time.Time, loc *time.Location) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, loc)
}
