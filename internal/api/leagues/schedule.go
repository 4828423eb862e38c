package leagues

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/camka14/mvp-site/internal/api/apiutil"
	"github.com/camka14/mvp-site/internal/api/authz"
	"github.com/camka14/mvp-site/internal/events"
	leaguescheduler "github.com/camka14/mvp-site/internal/leagues"
)

// POST /api/v1/events/{id}/schedule
func HandleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if regenerator == nil {
		logger.Error().Msg("Schedule regenerator not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
		return
	}
	if err := authz.RequireUser(r.Context()); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
		return
	}

	eventID, err := apiutil.PathID(r, eventIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	callerID := authz.UserFromContext(r.Context()).ID
	if limiter != nil {
		result := limiter.CheckRegenerate(eventID, callerID)
		if !result.Allowed {
			logger.Warn().Str("event_id", eventID).Str("reason", result.Reason).Dur("retry_after", result.RetryAfter).Msg("Schedule regeneration throttled")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusTooManyRequests, Message: "Schedule was regenerated recently, try again later"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	created, err := regenerator.Regenerate(ctx, eventID)
	if limiter != nil && reachedGenerator(err) {
		limiter.RecordRegenerate(eventID, callerID)
	}
	if err != nil {
		var schedErr *leaguescheduler.ScheduleError
		switch {
		case errors.Is(err, events.ErrEventNotFound):
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Event not found", Err: err})
		case errors.As(err, &schedErr):
			logger.Warn().Str("event_id", eventID).Str("code", schedErr.Code).Msg(schedErr.Message)
			body := apiutil.ErrorResponse{Error: schedErr.Message, Code: schedErr.Code}
			if err := apiutil.WriteJSON(w, http.StatusUnprocessableEntity, body); err != nil {
				logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write schedule error response")
			}
		case errors.Is(err, events.ErrNoGenerator):
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusServiceUnavailable, Message: "Schedule generation unavailable", Err: err})
		default:
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to generate schedule", Err: err})
		}
		return
	}

	logger.Info().Str("event_id", eventID).Int("matches", len(created)).Msg("Schedule generated on request")
	if err := apiutil.WriteJSON(w, http.StatusOK, newScheduleResponse(eventID, created)); err != nil {
		logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write schedule response")
	}
}

// reachedGenerator reports whether a regeneration attempt got as far as the
// generator and should count against the throttle.
func reachedGenerator(err error) bool {
	return !errors.Is(err, events.ErrEventNotFound) && !errors.Is(err, events.ErrNoGenerator)
}

// GET /api/v1/events/{id}/schedule
func HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if matches == nil {
		logger.Error().Msg("Match queries not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
		return
	}
	if err := authz.RequireUser(r.Context()); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
		return
	}

	eventID, err := apiutil.PathID(r, eventIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	rows, err := matches.ListEventMatches(ctx, eventID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load schedule", Err: err})
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, newScheduleResponse(eventID, rows)); err != nil {
		logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write schedule response")
	}
}
