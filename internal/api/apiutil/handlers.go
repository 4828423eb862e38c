package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error       string            `json:"error"`
	Code        string            `json:"code,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Details     any               `json:"details,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("missing request body")
		}
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError writes err as an ErrorResponse. HandlerError and FieldError
// carry their own status; anything else is a 500 with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	status := http.StatusInternalServerError
	body := ErrorResponse{Error: "Internal Server Error"}

	var herr HandlerError
	var ferr FieldError
	switch {
	case errors.As(err, &herr):
		status = herr.Status
		body.Error = herr.Message
		if status >= http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Msg(herr.Message)
		}
	case errors.As(err, &ferr):
		status = http.StatusBadRequest
		body.Error = ferr.Error()
		body.FieldErrors = map[string]string{ferr.Field: ferr.Reason}
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled request error")
	}

	if err := WriteJSON(w, status, body); err != nil {
		logger.Error().Err(err).Msg("Failed to write error response")
	}
}

// IsJSONRequest reports whether the request declares a JSON body.
func IsJSONRequest(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	return contentType == "" || strings.HasPrefix(strings.ToLower(contentType), "application/json")
}
