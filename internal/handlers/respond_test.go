package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lssb2003/university-forum/internal/errs"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", errs.Validation("title can't be blank"), http.StatusUnprocessableEntity},
		{"depth exceeded", &errs.DepthExceededError{Depth: 4, Max: 3}, http.StatusUnprocessableEntity},
		{"unauthorized", errs.Unauthorized(), http.StatusUnauthorized},
		{"banned", errs.BannedErr(), http.StatusForbidden},
		{"not found", errs.NotFound("thread"), http.StatusNotFound},
		{"deletion", &errs.DeletionError{Entity: "category", Cause: errors.New("boom")}, http.StatusInternalServerError},
		{"unclassified", errors.New("connection refused"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find post: %w", errs.NotFound("post")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type: got %q", ct)
			}
		})
	}
}

func TestWriteErrorValidationBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errs.Validation("title can't be blank", "content can't be blank"))

	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Errorf("errors: got %v", body.Errors)
	}
}

func TestWriteErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection reset on 10.0.0.3"))

	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Error("internal error detail leaked to the client")
	}

	rec = httptest.NewRecorder()
	writeError(rec, &errs.DeletionError{Entity: "category", Cause: errors.New("fk violation on threads")})
	if strings.Contains(rec.Body.String(), "fk violation") {
		t.Error("deletion cause leaked to the client")
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"hi"}`))
	if err := decodeJSON(req, &dst); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	if dst.Title != "hi" {
		t.Errorf("title: got %q", dst.Title)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	if err := decodeJSON(req, &dst); !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPathID(t *testing.T) {
	id := uuid.New()
	req := chiRequest("threadID", id.String())
	got, err := pathID(req, "threadID")
	if err != nil {
		t.Fatalf("pathID: %v", err)
	}
	if got != id {
		t.Errorf("id: got %s, want %s", got, id)
	}

	// An id that cannot parse names no row, so it reads as not found.
	req = chiRequest("threadID", "not-a-uuid")
	_, err = pathID(req, "threadID")
	if !errs.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	var nf *errs.NotFoundError
	if errors.As(err, &nf) && nf.Entity != "thread" {
		t.Errorf("entity: got %q, want %q", nf.Entity, "thread")
	}
}

// chiRequest builds a request whose chi route context carries one URL
// parameter.
func chiRequest(key, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
