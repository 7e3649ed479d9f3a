// Package handlers contains the JSON HTTP handlers for the forum API.
// Handlers are grouped by concern (auth, categories, threads, posts,
// search, admin) and receive their dependencies through the handler
// struct. Every handler resolves authorization through the core before
// touching a store, and maps domain errors onto status codes here.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
)

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// writeError maps a domain error onto the API's status code contract:
// validation → 422 with messages, authorization → 401 (403 when a ban
// blocks creation), not found → 404, everything else → generic 500 with
// the cause logged and never exposed.
func writeError(w http.ResponseWriter, err error) {
	var validation *errs.ValidationError
	var authorization *errs.AuthorizationError
	var notFound *errs.NotFoundError
	var deletion *errs.DeletionError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validation.Messages})
	case errors.As(err, &authorization):
		status := http.StatusUnauthorized
		if authorization.Banned {
			status = http.StatusForbidden
		}
		writeJSON(w, status, map[string]string{"error": authorization.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &deletion):
		slog.Error("cascading delete failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "deletion failed"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// decodeJSON parses the request body into dst, surfacing malformed input
// as a validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Validation("request body must be valid JSON")
	}
	return nil
}

// pathID parses the named chi URL parameter as a UUID. An id that does
// not parse can never name a row, so it surfaces as not found rather
// than a validation failure.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errs.NotFound(strings.TrimSuffix(name, "ID"))
	}
	return id, nil
}
