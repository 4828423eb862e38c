// Package events reconciles an event's fields, divisions, time slots and
// matches against an edit in a single transaction.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/camka14/mvp-site/internal/conflicts"
	"github.com/camka14/mvp-site/internal/db"
	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/divisions"
	"github.com/camka14/mvp-site/internal/leagues"
	"github.com/camka14/mvp-site/internal/metrics"
	"github.com/camka14/mvp-site/internal/timeslots"
)

// Phase is the coordinator state of a single reconciliation.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseApplying   Phase = "applying"
	PhaseCommitted  Phase = "committed"
	PhaseRolledBack Phase = "rolled_back"
)

// Generator produces matches for an event; *leagues.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, eventID string) ([]leagues.ScheduledMatch, error)
}

type Options struct {
	DefaultTimezone string
	// RejectCrossEventConflicts re-checks produced rows against other
	// events inside the reconciliation transaction.
	RejectCrossEventConflicts bool
	Now                       func() time.Time
	NewID                     func() string
}

type Reconciler struct {
	db        *db.DB
	generator Generator
	metrics   metrics.Metrics
	opts      Options
}

func NewReconciler(database *db.DB, generator Generator, m metrics.Metrics, opts Options) *Reconciler {
	if m == nil {
		m = metrics.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newFieldID
	}
	if opts.DefaultTimezone == "" {
		opts.DefaultTimezone = "UTC"
	}
	return &Reconciler{db: database, generator: generator, metrics: m, opts: opts}
}

// Regeneration reports the follow-up schedule generation of an edit.
type Regeneration struct {
	Matches int                    `json:"matches"`
	Error   *leagues.ScheduleError `json:"error,omitempty"`
}

type Result struct {
	Phase            Phase               `json:"phase"`
	Event            dbgen.Event         `json:"event"`
	FieldIDs         []string            `json:"fieldIds"`
	RemovedFieldIDs  []string            `json:"removedFieldIds"`
	DeletedMatches   int64               `json:"deletedMatches"`
	DivisionFieldMap map[string][]string `json:"divisionFieldIds"`
	TimeSlots        []timeslots.Pattern `json:"timeSlots"`
	SlotRows         []timeslots.SlotRow `json:"slotRows"`
	DeletedSlotRows  int                 `json:"deletedSlotRows"`
	Regeneration     *Regeneration       `json:"regeneration,omitempty"`
}

type plan struct {
	eventID        string
	name           string
	state          string
	eventType      string
	timezone       string
	singleDivision bool
	startDate      time.Time
	fields         []FieldInput
	divisionKeys   []string
	fieldMap       map[string][]string
	patterns       []timeslots.Pattern
	rows           []timeslots.SlotRow
}

type tracker struct {
	phase  Phase
	logger *zerolog.Logger
}

func (t *tracker) enter(next Phase) {
	t.logger.Debug().Str("from", string(t.phase)).Str("state", string(next)).Msg("Reconciliation state change")
	t.phase = next
}

// Reconcile validates payload against the stored event and, when it is
// valid, applies every field, division and slot change atomically. A
// qualifying edit then regenerates the schedule; a generation failure is
// reported in the result and does not undo the committed edit.
func (r *Reconciler) Reconcile(ctx context.Context, eventID string, payload EditPayload) (*Result, error) {
	started := r.opts.Now()
	logger := log.Ctx(ctx).With().Str("event_id", eventID).Logger()
	ctx = logger.WithContext(ctx)
	tr := &tracker{phase: PhaseIdle, logger: &logger}

	tr.enter(PhaseValidating)
	event, err := r.db.Queries.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	p, err := r.plan(event, payload)
	if err != nil {
		r.metrics.ObserveReconcile(metrics.OutcomeInvalid, r.opts.Now().Sub(started).Seconds())
		logger.Info().Err(err).Msg("Event edit rejected")
		return nil, err
	}

	result := &Result{
		FieldIDs:         fieldIDs(p.fields),
		DivisionFieldMap: p.fieldMap,
		TimeSlots:        p.patterns,
		SlotRows:         p.rows,
	}

	tr.enter(PhaseApplying)
	err = r.db.RunInTx(ctx, func(tx *db.DB) error {
		return r.apply(ctx, tx, p, result)
	})
	if err != nil {
		tr.enter(PhaseRolledBack)
		var rErr *ReconcileError
		if !errors.As(err, &rErr) {
			rErr = &ReconcileError{Step: StepCommit, Err: err}
			err = rErr
		}
		r.metrics.ObserveReconcile(metrics.OutcomeRolledBack, r.opts.Now().Sub(started).Seconds())
		logger.Error().Err(rErr.Err).Str("step", rErr.Step).Msg("Event reconciliation rolled back")
		return nil, err
	}

	tr.enter(PhaseCommitted)
	result.Phase = PhaseCommitted
	r.metrics.ObserveReconcile(metrics.OutcomeCommitted, r.opts.Now().Sub(started).Seconds())
	r.metrics.AddSlotRows(len(p.rows), result.DeletedSlotRows)
	logger.Info().
		Int("fields", len(p.fields)).
		Int("divisions", len(p.divisionKeys)).
		Int("slot_rows", len(p.rows)).
		Int("deleted_slot_rows", result.DeletedSlotRows).
		Strs("removed_fields", result.RemovedFieldIDs).
		Msg("Event reconciliation committed")

	switch {
	case shouldRegenerate(event, p, payload.RegenerateSchedule):
		result.Regeneration = r.regenerateAfterCommit(ctx, eventID)
	case p.eventType == TypeLeague || p.eventType == TypeTournament:
		r.metrics.IncRegeneration(metrics.RegenerationSkipped)
	}

	return result, nil
}

// shouldRegenerate decides whether a committed edit is followed by schedule
// generation. Only leagues and tournaments have generated schedules. An
// explicit regenerateSchedule flag wins; otherwise only the first publish of
// a draft triggers generation, so routine edits never rebuild the schedule.
func shouldRegenerate(prev dbgen.Event, p *plan, requested *bool) bool {
	if p.eventType != TypeLeague && p.eventType != TypeTournament {
		return false
	}
	if requested != nil {
		return *requested
	}
	return prev.State == StateDraft && p.state == StatePublished
}

func (r *Reconciler) plan(event dbgen.Event, payload EditPayload) (*plan, error) {
	problems := make(map[string]string)

	p := &plan{
		eventID:        event.ID,
		name:           event.Name,
		state:          event.State,
		eventType:      event.EventType,
		timezone:       event.Timezone,
		singleDivision: payload.SingleDivision,
		startDate:      event.StartDate,
	}
	if p.timezone == "" {
		p.timezone = r.opts.DefaultTimezone
	}
	if payload.Name != nil {
		if name := strings.TrimSpace(*payload.Name); name != "" {
			p.name = name
		} else {
			problems["name"] = "name is required"
		}
	}
	if payload.State != nil {
		p.state = strings.TrimSpace(*payload.State)
		if !validState(p.state) {
			problems["state"] = fmt.Sprintf("unknown state %q", p.state)
		}
	}
	if eventType := strings.TrimSpace(payload.EventType); eventType != "" {
		p.eventType = eventType
		if !validEventType(eventType) {
			problems["eventType"] = fmt.Sprintf("unknown event type %q", eventType)
		}
	}

	fields := normalizeFields(payload.Fields, r.opts.NewID)
	p.divisionKeys = divisions.NormalizeKeys(payload.Divisions)

	sync := divisions.SyncInput{
		Fields:             fieldTags(fields),
		OrganizationHosted: event.OrganizationID.Valid && event.OrganizationID.String != "",
		SelectedFieldIDs:   payload.SelectedFieldIDs,
		Divisions:          p.divisionKeys,
		Explicit:           payload.DivisionFieldIDs,
	}
	eligible := sync.EligibleFields()
	p.fieldMap = divisions.SyncFieldMap(sync)

	byID := make(map[string]FieldInput, len(fields))
	for _, field := range fields {
		byID[field.ID] = field
	}
	for _, tagged := range divisions.Retag(eligible, p.divisionKeys, p.fieldMap) {
		field := byID[tagged.ID]
		field.Divisions = tagged.Divisions
		p.fields = append(p.fields, field)
	}

	patterns, err := timeslots.Validate(timeslots.NormalizeAll(payload.TimeSlots), timeslots.ValidateOptions{
		FieldIDs:       fieldIDs(p.fields),
		EventDivisions: p.divisionKeys,
		SingleDivision: p.singleDivision,
	})
	var vErr *timeslots.ValidationError
	if err != nil && !errors.As(err, &vErr) {
		return nil, err
	}
	if vErr == nil && len(problems) > 0 {
		vErr = &timeslots.ValidationError{FieldErrors: make(map[string]string)}
	}
	if vErr != nil {
		for path, msg := range problems {
			vErr.FieldErrors[path] = msg
		}
		r.metrics.AddConflicts(metrics.ScopeIntraForm, countOverlaps(vErr))
		return nil, vErr
	}

	p.patterns = timeslots.Merge(patterns)
	p.rows = timeslots.FanOutAll(p.patterns, timeslots.FanOutOptions{
		SingleDivision: p.singleDivision,
		EventDivisions: p.divisionKeys,
	})
	return p, nil
}

func countOverlaps(vErr *timeslots.ValidationError) int {
	count := 0
	for _, msg := range vErr.FieldErrors {
		if strings.HasPrefix(msg, "overlaps with") {
			count++
		}
	}
	return count
}

func (r *Reconciler) apply(ctx context.Context, tx *db.DB, p *plan, result *Result) error {
	now := r.opts.Now().UTC()

	if r.opts.RejectCrossEventConflicts {
		found, err := r.crossEventConflicts(ctx, tx, p)
		if err != nil {
			return stepError(StepCheckConflicts, err)
		}
		if len(found) > 0 {
			return stepError(StepCheckConflicts, &ConflictError{Conflicts: found})
		}
	}

	previous, err := tx.Queries.ListEventFieldIDs(ctx, p.eventID)
	if err != nil {
		return stepError(StepLoad, err)
	}
	current := make(map[string]struct{}, len(p.fields))
	for _, field := range p.fields {
		current[field.ID] = struct{}{}
	}
	removed := make([]string, 0)
	for _, id := range previous {
		if _, ok := current[id]; !ok {
			removed = append(removed, id)
		}
	}
	result.RemovedFieldIDs = removed

	for _, id := range removed {
		n, err := tx.Queries.DeleteMatchesByEventField(ctx, dbgen.DeleteMatchesByEventFieldParams{
			EventID: p.eventID,
			FieldID: sql.NullString{String: id, Valid: true},
		})
		if err != nil {
			return stepError(StepRemoveMatches, fmt.Errorf("field %s: %w", id, err))
		}
		result.DeletedMatches += n
	}

	for _, id := range removed {
		// organization-owned rows are left in place by the query itself
		if _, err := tx.Queries.DeleteLocalField(ctx, id); err != nil {
			return stepError(StepRemoveFields, fmt.Errorf("field %s: %w", id, err))
		}
	}

	if err := upsertFields(ctx, tx, p, now); err != nil {
		return stepError(StepUpsertFields, err)
	}
	if err := syncDivisions(ctx, tx, p, now); err != nil {
		return stepError(StepSyncDivisions, err)
	}
	deleted, err := syncSlots(ctx, tx, p, now)
	if err != nil {
		return stepError(StepSyncSlots, err)
	}
	result.DeletedSlotRows = deleted

	fieldMap, err := json.Marshal(p.fieldMap)
	if err != nil {
		return stepError(StepUpdateEvent, err)
	}
	event, err := tx.Queries.UpdateEventScheduling(ctx, dbgen.UpdateEventSchedulingParams{
		Name:             p.name,
		State:            p.state,
		EventType:        p.eventType,
		SingleDivision:   p.singleDivision,
		DivisionFieldMap: string(fieldMap),
		UpdatedAt:        now,
		ID:               p.eventID,
	})
	if err != nil {
		return stepError(StepUpdateEvent, err)
	}
	result.Event = event
	return nil
}

func (r *Reconciler) crossEventConflicts(ctx context.Context, tx *db.DB, p *plan) ([]conflicts.Conflict, error) {
	svc := conflicts.NewService(tx.Queries, conflicts.WithMetrics(r.metrics), conflicts.WithClock(r.opts.Now))
	seen := make(map[string]struct{})
	var found []conflicts.Conflict
	for _, row := range p.rows {
		matches, err := svc.FindConflicts(ctx, conflicts.Candidate{
			FieldID:        row.FieldID,
			DayOfWeek:      row.Weekday,
			StartMinutes:   row.StartMinutes,
			EndMinutes:     row.EndMinutes,
			Timezone:       p.timezone,
			Window:         conflicts.Window{From: row.StartDate, To: row.EndDate},
			ExcludeEventID: p.eventID,
		})
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if _, ok := seen[match.SlotID]; ok {
				continue
			}
			seen[match.SlotID] = struct{}{}
			found = append(found, match)
		}
	}
	return found, nil
}

func upsertFields(ctx context.Context, tx *db.DB, p *plan, now time.Time) error {
	for _, field := range p.fields {
		tags, err := json.Marshal(field.Divisions)
		if err != nil {
			return err
		}
		params := dbgen.UpsertFieldParams{
			ID:             field.ID,
			Name:           field.Name,
			FieldNumber:    int64(field.FieldNumber),
			SurfaceType:    field.SurfaceType,
			OrganizationID: sql.NullString{String: field.OrganizationID, Valid: field.OrganizationID != ""},
			Divisions:      string(tags),
			UpdatedAt:      now,
		}
		existing, err := tx.Queries.GetField(ctx, field.ID)
		switch {
		case err == nil:
			if existing.OrganizationID.Valid {
				// stored ownership wins over the payload
				params.OrganizationID = existing.OrganizationID
				params.Divisions = existing.Divisions
			} else {
				links, err := tx.Queries.CountFieldLinksOutsideEvent(ctx, dbgen.CountFieldLinksOutsideEventParams{
					FieldID: field.ID,
					EventID: p.eventID,
				})
				if err != nil {
					return fmt.Errorf("check field %s: %w", field.ID, err)
				}
				if links > 0 {
					return fmt.Errorf("field %s: %w", field.ID, ErrIDInUse)
				}
			}
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("load field %s: %w", field.ID, err)
		}
		if err := tx.Queries.UpsertField(ctx, params); err != nil {
			return fmt.Errorf("upsert field %s: %w", field.ID, err)
		}
	}

	if err := tx.Queries.DeleteEventFields(ctx, p.eventID); err != nil {
		return fmt.Errorf("clear event fields: %w", err)
	}
	for i, field := range p.fields {
		if err := tx.Queries.AddEventField(ctx, dbgen.AddEventFieldParams{
			EventID:  p.eventID,
			FieldID:  field.ID,
			Position: int64(i),
		}); err != nil {
			return fmt.Errorf("link field %s: %w", field.ID, err)
		}
	}
	return nil
}

func syncDivisions(ctx context.Context, tx *db.DB, p *plan, now time.Time) error {
	keep := make(map[string]struct{}, len(p.divisionKeys))
	for _, key := range p.divisionKeys {
		keep[divisions.RowID(p.eventID, key)] = struct{}{}
	}

	existing, err := tx.Queries.ListEventDivisions(ctx, p.eventID)
	if err != nil {
		return fmt.Errorf("list divisions: %w", err)
	}
	for _, row := range existing {
		if _, ok := keep[row.ID]; ok {
			continue
		}
		if _, err := tx.Queries.DeleteDivision(ctx, dbgen.DeleteDivisionParams{ID: row.ID, EventID: p.eventID}); err != nil {
			return fmt.Errorf("delete division %s: %w", row.DivisionKey, err)
		}
	}

	for _, key := range p.divisionKeys {
		desc := divisions.Describe(key, p.startDate)
		fieldIDs, err := json.Marshal(p.fieldMap[key])
		if err != nil {
			return err
		}
		params := dbgen.UpsertDivisionParams{
			ID:             divisions.RowID(p.eventID, key),
			EventID:        p.eventID,
			DivisionKey:    key,
			Name:           desc.Name,
			Gender:         desc.Gender,
			RatingType:     desc.RatingType,
			CategoryID:     desc.CategoryID,
			AgeCutoffLabel: desc.AgeCutoffLabel,
			FieldIds:       string(fieldIDs),
			UpdatedAt:      now,
		}
		if desc.AgeCutoffDate != nil {
			params.AgeCutoffDate = sql.NullTime{Time: *desc.AgeCutoffDate, Valid: true}
		}
		if err := tx.Queries.UpsertDivision(ctx, params); err != nil {
			return fmt.Errorf("upsert division %s: %w", key, err)
		}
	}
	return nil
}

func syncSlots(ctx context.Context, tx *db.DB, p *plan, now time.Time) (int, error) {
	keep := make(map[string]struct{}, len(p.rows))
	for _, row := range p.rows {
		keep[row.ID] = struct{}{}
	}

	existing, err := tx.Queries.ListEventTimeSlots(ctx, p.eventID)
	if err != nil {
		return 0, fmt.Errorf("list time slots: %w", err)
	}
	deleted := 0
	for _, row := range existing {
		if _, ok := keep[row.ID]; ok {
			continue
		}
		n, err := tx.Queries.DeleteTimeSlot(ctx, dbgen.DeleteTimeSlotParams{ID: row.ID, EventID: p.eventID})
		if err != nil {
			return 0, fmt.Errorf("delete time slot %s: %w", row.ID, err)
		}
		deleted += int(n)
	}

	for _, row := range p.rows {
		owner, err := tx.Queries.GetTimeSlotEventID(ctx, row.ID)
		switch {
		case err == nil && owner != p.eventID:
			return 0, fmt.Errorf("time slot %s: %w", row.ID, ErrIDInUse)
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("load time slot %s: %w", row.ID, err)
		}
	}

	for _, row := range p.rows {
		rowDivisions, err := json.Marshal(row.Divisions)
		if err != nil {
			return 0, err
		}
		if err := tx.Queries.UpsertTimeSlot(ctx, dbgen.UpsertTimeSlotParams{
			ID:           row.ID,
			EventID:      p.eventID,
			PatternID:    row.PatternID,
			DayOfWeek:    int64(row.Weekday),
			FieldID:      row.FieldID,
			StartMinutes: int64(row.StartMinutes),
			EndMinutes:   int64(row.EndMinutes),
			Repeating:    row.Repeating,
			StartDate:    nullTime(row.StartDate),
			EndDate:      nullTime(row.EndDate),
			Divisions:    string(rowDivisions),
			Timezone:     p.timezone,
			UpdatedAt:    now,
		}); err != nil {
			return 0, fmt.Errorf("upsert time slot %s: %w", row.ID, err)
		}
	}
	return deleted, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
