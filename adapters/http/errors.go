package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/tanzim/portfolio-api/app"
	"github.com/tanzim/portfolio-api/ports"
)

// Error codes written in the error envelope.
const (
	CodeInvalidID        = "invalid_id"
	CodeInvalidBody      = "invalid_body"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal_error"
)

// ErrorResponseBody represents an error response body for swagger docs.
type ErrorResponseBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details for swagger docs.
type ErrorDetail struct {
	Code    string `json:"code" example:"invalid_id"`
	Message string `json:"message" example:"Invalid training ID"`
	ID      string `json:"id,omitempty" example:"5b0c1f0e-3c53-4a8e-9d7a-0f4b8c2d1e6a"`
}

// errorWriter maps service errors to the JSON error envelope.
type errorWriter struct {
	logger zerolog.Logger
	ids    ports.IDGenerator
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, detail := classify(err)

	if status == http.StatusInternalServerError {
		detail.ID = e.ids.New()
		var appErr *app.Error
		resource := ""
		if errors.As(err, &appErr) {
			resource = appErr.Resource
		}
		e.logger.Error().
			Err(err).
			Str("error_id", detail.ID).
			Str("resource", resource).
			Str("op", op).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request failed")
	}

	writeJSON(w, status, ErrorResponseBody{Error: detail})
}

func classify(err error) (int, ErrorDetail) {
	var appErr *app.Error
	message := ""
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case errors.Is(err, app.ErrInvalidID):
		return http.StatusBadRequest, ErrorDetail{Code: CodeInvalidID, Message: message}
	case errors.Is(err, app.ErrInvalidBody):
		return http.StatusBadRequest, ErrorDetail{Code: CodeInvalidBody, Message: message}
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound, ErrorDetail{Code: CodeNotFound, Message: message}
	case errors.Is(err, app.ErrOperationNotAllowed):
		return http.StatusMethodNotAllowed, ErrorDetail{Code: CodeMethodNotAllowed, Message: message}
	default:
		return http.StatusInternalServerError, ErrorDetail{Code: CodeInternal, Message: "Internal server error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponseBody{Error: ErrorDetail{
		Code:    CodeNotFound,
		Message: "No route for " + r.Method + " " + r.URL.Path,
	}})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponseBody{Error: ErrorDetail{
		Code:    CodeMethodNotAllowed,
		Message: "Method " + r.Method + " is not allowed on " + r.URL.Path,
	}})
}
