package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camka14/mvp-site/internal/api/apiutil"
	"github.com/camka14/mvp-site/internal/api/authz"
	"github.com/camka14/mvp-site/internal/conflicts"
	eventsync "github.com/camka14/mvp-site/internal/events"
	"github.com/camka14/mvp-site/internal/leagues"
	"github.com/camka14/mvp-site/internal/timeslots"
)

const (
	eventQueryTimeout = 30 * time.Second
	eventIDPathKey    = "id"
	fieldIDPathKey    = "id"
)

// Reconciler applies an edit; *eventsync.Reconciler satisfies it.
type Reconciler interface {
	Reconcile(ctx context.Context, eventID string, payload eventsync.EditPayload) (*eventsync.Result, error)
}

// ConflictFinder looks up committed rows overlapping a candidate slot.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, c conflicts.Candidate) ([]conflicts.Conflict, error)
}

var (
	reconciler     Reconciler
	conflictFinder ConflictFinder
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(r Reconciler, finder ConflictFinder) {
	reconciler = r
	conflictFinder = finder
}

type updateResponse struct {
	*eventsync.Result
	RegenerationError *leagues.ScheduleError `json:"regenerationError,omitempty"`
}

type conflictsResponse struct {
	FieldID   string               `json:"fieldId"`
	Conflicts []conflicts.Conflict `json:"conflicts"`
}

// PATCH /api/v1/events/{id}
func HandleEventUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if reconciler == nil {
		logger.Error().Msg("Event reconciler not initialized")
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

	if !apiutil.IsJSONRequest(r) {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnsupportedMediaType, Message: "Content-Type must be application/json"})
		return
	}

	var payload eventsync.EditPayload
	if err := apiutil.DecodeJSON(r, &payload); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	result, err := reconciler.Reconcile(ctx, eventID, payload)
	if err != nil {
		writeReconcileError(w, r, eventID, err)
		return
	}

	resp := updateResponse{Result: result}
	if result.Regeneration != nil && result.Regeneration.Error != nil {
		resp.RegenerationError = result.Regeneration.Error
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write event response")
	}
}

// GET /api/v1/fields/{id}/conflicts
func HandleFieldConflicts(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if conflictFinder == nil {
		logger.Error().Msg("Conflict service not initialized")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
		return
	}
	if err := authz.RequireUser(r.Context()); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err})
		return
	}

	fieldID, err := apiutil.PathID(r, fieldIDPathKey)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	candidate, err := parseCandidate(r, fieldID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	found, err := conflictFinder.FindConflicts(ctx, candidate)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to check conflicts", Err: err})
		return
	}
	if found == nil {
		found = []conflicts.Conflict{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, conflictsResponse{FieldID: fieldID, Conflicts: found}); err != nil {
		logger.Error().Err(err).Str("field_id", fieldID).Msg("Failed to write conflicts response")
	}
}

func parseCandidate(r *http.Request, fieldID string) (conflicts.Candidate, error) {
	query := r.URL.Query()

	day, err := apiutil.ParseIntRangeField(query.Get("dayOfWeek"), "dayOfWeek", 0, 6)
	if err != nil {
		return conflicts.Candidate{}, err
	}
	start, err := apiutil.ParseIntRangeField(query.Get("startTimeMinutes"), "startTimeMinutes", 0, timeslots.MinutesPerDay-1)
	if err != nil {
		return conflicts.Candidate{}, err
	}
	end, err := apiutil.ParseIntRangeField(query.Get("endTimeMinutes"), "endTimeMinutes", 1, timeslots.MinutesPerDay)
	if err != nil {
		return conflicts.Candidate{}, err
	}
	if end <= start {
		return conflicts.Candidate{}, apiutil.FieldError{Field: "endTimeMinutes", Reason: "must be after startTimeMinutes"}
	}
	timezone, err := apiutil.ParseTimezone(query.Get("timezone"), "timezone")
	if err != nil {
		return conflicts.Candidate{}, err
	}
	from, err := apiutil.ParseOptionalDate(query.Get("from"), "from")
	if err != nil {
		return conflicts.Candidate{}, err
	}
	to, err := apiutil.ParseOptionalDate(query.Get("to"), "to")
	if err != nil {
		return conflicts.Candidate{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return conflicts.Candidate{}, apiutil.FieldError{Field: "to", Reason: "must not be before from"}
	}

	return conflicts.Candidate{
		FieldID:        fieldID,
		DayOfWeek:      day,
		StartMinutes:   start,
		EndMinutes:     end,
		Timezone:       timezone,
		Window:         conflicts.Window{From: from, To: to},
		ExcludeEventID: query.Get("excludeEventId"),
	}, nil
}

func writeReconcileError(w http.ResponseWriter, r *http.Request, eventID string, err error) {
	logger := log.Ctx(r.Context())

	var vErr *timeslots.ValidationError
	var cErr *eventsync.ConflictError
	var rErr *eventsync.ReconcileError
	switch {
	case errors.As(err, &vErr):
		body := apiutil.ErrorResponse{Error: "Validation failed", FieldErrors: vErr.FieldErrors}
		if err := apiutil.WriteJSON(w, http.StatusUnprocessableEntity, body); err != nil {
			logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write validation response")
		}
	case errors.Is(err, eventsync.ErrEventNotFound):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Event not found", Err: err})
	case errors.As(err, &cErr):
		body := apiutil.ErrorResponse{Error: cErr.Error(), Code: "cross_event_conflict", Details: cErr.Conflicts}
		if err := apiutil.WriteJSON(w, http.StatusConflict, body); err != nil {
			logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write conflict response")
		}
	case errors.Is(err, eventsync.ErrIDInUse):
		logger.Warn().Err(err).Str("event_id", eventID).Msg("Event update references another event's rows")
		body := apiutil.ErrorResponse{Error: "Field or time slot id is already used by another event", Code: "id_in_use"}
		if err := apiutil.WriteJSON(w, http.StatusConflict, body); err != nil {
			logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write conflict response")
		}
	case errors.As(err, &rErr):
		logger.Error().Err(rErr.Err).Str("event_id", eventID).Str("step", rErr.Step).Msg("Event update rolled back")
		body := apiutil.ErrorResponse{Error: "Failed to update event", Code: rErr.Step}
		if err := apiutil.WriteJSON(w, http.StatusInternalServerError, body); err != nil {
			logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to write error response")
		}
	default:
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to update event", Err: err})
	}
}
