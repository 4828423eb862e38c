package leagues

import (
	"context"
	"time"

	dbgen "github.com/camka14/mvp-site/internal/db/generated"
	"github.com/camka14/mvp-site/internal/ratelimit"
)

const (
	scheduleQueryTimeout = 30 * time.Second
	eventIDPathKey       = "id"
)

// Regenerator rebuilds an event's matches; *events.Reconciler satisfies it.
type Regenerator interface {
	Regenerate(ctx context.Context, eventID string) ([]dbgen.Match, error)
}

// MatchLister reads committed matches; *dbgen.Queries satisfies it.
type MatchLister interface {
	ListEventMatches(ctx context.Context, eventID string) ([]dbgen.Match, error)
}

var (
	regenerator Regenerator
	matches     MatchLister
	limiter     *ratelimit.Limiter
)

// InitHandlers must be called during server startup before handling requests.
// A nil rate limiter disables throttling of explicit regeneration.
func InitHandlers(r Regenerator, lister MatchLister, l *ratelimit.Limiter) {
	regenerator = r
	matches = lister
	limiter = l
}

type matchResponse struct {
	ID          string    `json:"id"`
	FieldID     string    `json:"fieldId,omitempty"`
	HomeTeamID  string    `json:"homeTeamId,omitempty"`
	AwayTeamID  string    `json:"awayTeamId,omitempty"`
	DivisionKey string    `json:"divisionKey"`
	Round       int64     `json:"round"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
}

type scheduleResponse struct {
	EventID string          `json:"eventId"`
	Matches []matchResponse `json:"matches"`
}

func newScheduleResponse(eventID string, rows []dbgen.Match) scheduleResponse {
	resp := scheduleResponse{EventID: eventID, Matches: make([]matchResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Matches = append(resp.Matches, matchResponse{
			ID:          row.ID,
			FieldID:     row.FieldID.String,
			HomeTeamID:  row.HomeTeamID.String,
			AwayTeamID:  row.AwayTeamID.String,
			DivisionKey: row.DivisionKey,
			Round:       row.Round,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			Status:      row.Status,
		})
	}
	return resp
}
