package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camka14/mvp-site/internal/conflicts"
)

const (
	ConflictSweepJobName = "conflict_sweep"
	conflictSweepTimeout = 5 * time.Minute
)

// Sweeper finds overlapping committed rows across events;
// *conflicts.Service satisfies it.
type Sweeper interface {
	Sweep(ctx context.Context) ([]conflicts.Pair, error)
}

// RegisterConflictSweep schedules the periodic cross-event conflict sweep.
func RegisterConflictSweep(s *Service, sweeper Sweeper, cronExpr string) error {
	_, err := s.AddJob(ConflictSweepJobName, cronExpr, conflictSweepTask(sweeper, conflictSweepTimeout))
	return err
}

func conflictSweepTask(sweeper Sweeper, timeout time.Duration) func() {
	jobLogger := log.With().Str("component", "conflict_sweep_job").Logger()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		pairs, err := sweeper.Sweep(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Conflict sweep failed")
			return
		}
		if len(pairs) == 0 {
			jobLogger.Info().Msg("Conflict sweep found no overlaps")
			return
		}
		jobLogger.Warn().Int("pairs", len(pairs)).Msg("Conflict sweep found overlapping events")
	}
}
