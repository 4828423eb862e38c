// Package conflicts checks candidate weekly slots against schedules other
// events have already committed on the same field.
package conflicts

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/metrics"
	"github.com/camka14/mvp-site/internal/timeslots"
)

const minutesPerWeek = 7 * timeslots.MinutesPerDay

// Source reads committed weekly slot rows joined to their events;
// *dbgen.Queries satisfies it, including inside a transaction.
type Source interface {
	ListFieldWeeklySlots(ctx context.Context, fieldID string) ([]dbgen.ListFieldWeeklySlotsRow, error)
	ListWeeklySlots(ctx context.Context) ([]dbgen.ListWeeklySlotsRow, error)
}

// Window bounds the dates a candidate is active on. Nil ends are open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Candidate is a slot being considered for a field.
type Candidate struct {
	FieldID        string
	DayOfWeek      int
	StartMinutes   int
	EndMinutes     int
	Timezone       string
	Window         Window
	ExcludeEventID string
}

// Conflict is a committed row that overlaps a candidate.
type Conflict struct {
	SlotID       string `json:"slotId"`
	PatternID    string `json:"patternId"`
	EventID      string `json:"eventId"`
	EventName    string `json:"eventName"`
	FieldID      string `json:"fieldId"`
	DayOfWeek    int    `json:"dayOfWeek"`
	StartMinutes int    `json:"startTimeMinutes"`
	EndMinutes   int    `json:"endTimeMinutes"`
	Timezone     string `json:"timezone"`
}

// Pair is two committed rows of different events that overlap.
type Pair struct {
	A Conflict `json:"a"`
	B Conflict `json:"b"`
}

type Service struct {
	source          Source
	metrics         metrics.Metrics
	defaultLocation *time.Location
	now             func() time.Time
}

type Option func(*Service)

func WithMetrics(m metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultLocation sets the zone used for rows or candidates without a
// valid timezone.
func WithDefaultLocation(loc *time.Location) Option {
	return func(s *Service) { s.defaultLocation = loc }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source:          source,
		metrics:         metrics.Nop{},
		defaultLocation: time.UTC,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindConflicts returns the committed rows on c.FieldID that overlap c. Rows
// stored in another timezone are shifted into the candidate's zone first, so
// a row can land on a neighbouring weekday.
func (s *Service) FindConflicts(ctx context.Context, c Candidate) ([]Conflict, error) {
	if c.EndMinutes <= c.StartMinutes {
		return nil, fmt.Errorf("candidate end %d must be after start %d", c.EndMinutes, c.StartMinutes)
	}
	rows, err := s.source.ListFieldWeeklySlots(ctx, c.FieldID)
	if err != nil {
		return nil, fmt.Errorf("list weekly slots for field %s: %w", c.FieldID, err)
	}

	candLoc := s.location(c.Timezone)
	ref := s.reference(c.Window)
	candStart := c.DayOfWeek*timeslots.MinutesPerDay + c.StartMinutes
	candEnd := c.DayOfWeek*timeslots.MinutesPerDay + c.EndMinutes

	var found []Conflict
	for _, row := range rows {
		if c.ExcludeEventID != "" && row.EventID == c.ExcludeEventID {
			continue
		}
		if !datesIntersect(c.Window, row.StartDate, row.EndDate) {
			continue
		}
		rowStart := weekMinute(int(row.DayOfWeek), int(row.StartMinutes), s.location(row.Timezone), candLoc, ref)
		rowEnd := rowStart + int(row.EndMinutes-row.StartMinutes)
		if !weeklyOverlap(candStart, candEnd, rowStart, rowEnd) {
			continue
		}
		found = append(found, fieldRowConflict(row))
	}

	s.metrics.AddConflicts(metrics.ScopeCrossEvent, len(found))
	if len(found) > 0 {
		log.Ctx(ctx).Debug().
			Str("field_id", c.FieldID).
			Int("day_of_week", c.DayOfWeek).
			Int("conflicts", len(found)).
			Msg("Candidate slot conflicts with committed schedules")
	}
	return found, nil
}

// Sweep scans every committed row and reports overlapping pairs that belong
// to different events on the same field.
func (s *Service) Sweep(ctx context.Context) ([]Pair, error) {
	rows, err := s.source.ListWeeklySlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}

	byField := make(map[string][]dbgen.ListWeeklySlotsRow)
	fieldIDs := make([]string, 0)
	for _, row := range rows {
		if _, ok := byField[row.FieldID]; !ok {
			fieldIDs = append(fieldIDs, row.FieldID)
		}
		byField[row.FieldID] = append(byField[row.FieldID], row)
	}
	sort.Strings(fieldIDs)

	ref := s.now()
	var pairs []Pair
	for _, fieldID := range fieldIDs {
		fieldRows := byField[fieldID]
		for i := 0; i < len(fieldRows); i++ {
			a := fieldRows[i]
			aLoc := s.location(a.Timezone)
			aStart := weekMinute(int(a.DayOfWeek), int(a.StartMinutes), aLoc, time.UTC, ref)
			aEnd := aStart + int(a.EndMinutes-a.StartMinutes)
			for j := i + 1; j < len(fieldRows); j++ {
				b := fieldRows[j]
				if a.EventID == b.EventID {
					continue
				}
				window := Window{}
				if a.StartDate.Valid {
					window.From = &a.StartDate.Time
				}
				if a.EndDate.Valid {
					window.To = &a.EndDate.Time
				}
				if !datesIntersect(window, b.StartDate, b.EndDate) {
					continue
				}
				bStart := weekMinute(int(b.DayOfWeek), int(b.StartMinutes), s.location(b.Timezone), time.UTC, ref)
				bEnd := bStart + int(b.EndMinutes-b.StartMinutes)
				if !weeklyOverlap(aStart, aEnd, bStart, bEnd) {
					continue
				}
				pairs = append(pairs, Pair{A: weeklyRowConflict(a), B: weeklyRowConflict(b)})
			}
		}
	}

	s.metrics.AddConflicts(metrics.ScopeSweep, len(pairs))
	logger := log.Ctx(ctx)
	for _, pair := range pairs {
		logger.Warn().
			Str("field_id", pair.A.FieldID).
			Str("slot_id", pair.A.SlotID).
			Str("event_id", pair.A.EventID).
			Str("other_slot_id", pair.B.SlotID).
			Str("other_event_id", pair.B.EventID).
			Msg("Committed schedules overlap")
	}
	return pairs, nil
}

func (s *Service) location(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return s.defaultLocation
}

// reference picks the date whose UTC offsets are used for zone conversion.
func (s *Service) reference(w Window) time.Time {
	if w.From != nil {
		return *w.From
	}
	return s.now()
}

// weekMinute converts (day, minute) in from to minutes since Sunday 00:00 in
// to, using the week that contains ref.
func weekMinute(day, minute int, from, to *time.Location, ref time.Time) int {
	if from.String() == to.String() {
		return day*timeslots.MinutesPerDay + minute
	}
	local := ref.In(from)
	sunday := time.Date(local.Year(), local.Month(), local.Day()-int(local.Weekday()), 0, 0, 0, 0, from)
	instant := time.Date(sunday.Year(), sunday.Month(), sunday.Day()+day, 0, minute, 0, 0, from).In(to)
	return ((int(instant.Weekday())*timeslots.MinutesPerDay+instant.Hour()*60+instant.Minute())%minutesPerWeek + minutesPerWeek) % minutesPerWeek
}

// weeklyOverlap applies the half-open overlap test on the weekly circle so
// intervals that wrap past Saturday midnight still meet.
func weeklyOverlap(s1, e1, s2, e2 int) bool {
	for _, shift := range []int{-minutesPerWeek, 0, minutesPerWeek} {
		if timeslots.Overlaps(s1, e1, s2+shift, e2+shift) {
			return true
		}
	}
	return false
}

func datesIntersect(w Window, start, end sql.NullTime) bool {
	if w.From != nil && end.Valid && dateOnly(end.Time).Before(dateOnly(*w.From)) {
		return false
	}
	if w.To != nil && start.Valid && dateOnly(start.Time).After(dateOnly(*w.To)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func fieldRowConflict(row dbgen.ListFieldWeeklySlotsRow) Conflict {
	return Conflict{
		SlotID:       row.ID,
		PatternID:    row.PatternID,
		EventID:      row.EventID,
		EventName:    row.EventName,
		FieldID:      row.FieldID,
		DayOfWeek:    int(row.DayOfWeek),
		StartMinutes: int(row.StartMinutes),
		EndMinutes:   int(row.EndMinutes),
		Timezone:     row.Timezone,
	}
}

func weeklyRowConflict(row dbgen.ListWeeklySlotsRow) Conflict {
	return Conflict{
		SlotID:       row.ID,
		PatternID:    row.PatternID,
		EventID:      row.EventID,
		EventName:    row.EventName,
		FieldID:      row.FieldID,
		DayOfWeek:    int(row.DayOfWeek),
		StartMinutes: int(row.StartMinutes),
		EndMinutes:   int(row.EndMinutes),
		Timezone:     row.Timezone,
	}
}
