package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/camka14/mvp-site/internal/db"
	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/leagues"
	"github.com/camka14/mvp-site/internal/metrics"
)

const CodeGenerationFailed = "generation_failed"

var ErrNoGenerator = errors.New("schedule generator not configured")

// Regenerate replaces the event's matches with a freshly generated schedule.
// Generation runs against committed state and the replacement is its own
// transaction.
func (r *Reconciler) Regenerate(ctx context.Context, eventID string) ([]dbgen.Match, error) {
	logger := log.Ctx(ctx)
	if r.generator == nil {
		return nil, ErrNoGenerator
	}

	if _, err := r.db.Queries.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	scheduled, err := r.generator.Generate(ctx, eventID)
	if err != nil {
		r.metrics.IncRegeneration(metrics.RegenerationFailed)
		return nil, err
	}

	var created []dbgen.Match
	err = r.db.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := tx.Queries.DeleteMatchesByEvent(ctx, eventID); err != nil {
			return fmt.Errorf("clear matches: %w", err)
		}
		created = make([]dbgen.Match, 0, len(scheduled))
		for _, match := range scheduled {
			row, err := tx.Queries.CreateMatch(ctx, dbgen.CreateMatchParams{
				ID:          r.opts.NewID(),
				EventID:     eventID,
				FieldID:     nullString(match.FieldID),
				HomeTeamID:  nullString(match.HomeTeamID),
				AwayTeamID:  nullString(match.AwayTeamID),
				DivisionKey: match.DivisionKey,
				Round:       int64(match.Round),
				StartTime:   match.StartTime.UTC(),
				EndTime:     match.EndTime.UTC(),
				Status:      "scheduled",
			})
			if err != nil {
				return fmt.Errorf("create match: %w", err)
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		r.metrics.IncRegeneration(metrics.RegenerationFailed)
		return nil, err
	}

	r.metrics.IncRegeneration(metrics.RegenerationGenerated)
	logger.Info().Str("event_id", eventID).Int("matches", len(created)).Msg("Schedule regenerated")
	return created, nil
}

// regenerateAfterCommit runs Regenerate for a committed edit and folds any
// failure into a ScheduleError for the caller.
func (r *Reconciler) regenerateAfterCommit(ctx context.Context, eventID string) *Regeneration {
	matches, err := r.Regenerate(ctx, eventID)
	if err == nil {
		return &Regeneration{Matches: len(matches)}
	}

	var schedErr *leagues.ScheduleError
	if !errors.As(err, &schedErr) {
		log.Ctx(ctx).Error().Err(err).Str("event_id", eventID).Msg("Schedule regeneration failed")
		schedErr = &leagues.ScheduleError{Code: CodeGenerationFailed, Message: "schedule generation failed"}
	} else {
		log.Ctx(ctx).Warn().Str("event_id", eventID).Str("code", schedErr.Code).Msg(schedErr.Message)
	}
	return &Regeneration{Error: schedErr}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
