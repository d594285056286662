package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"crate/internal/models"
	"crate/internal/repositories"
	"crate/internal/shared"
	"crate/internal/tasks"
)

// RecordHandler serves the record CRUD API and the alphabetical bucket index.
// Implements the [Handler] interface for registration with a [Router].
type RecordHandler struct {
	repo   *repositories.RecordRepository
	logger *log.Logger
}

// NewRecordHandler creates a record API handler backed by the given repository.
func NewRecordHandler(repo *repositories.RecordRepository, logger *log.Logger) *RecordHandler {
	return &RecordHandler{repo: repo, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *RecordHandler) Routes() []string {
	return []string{"/api/records", "/api/records/"}
}

// ServeHTTP dispatches on method and path suffix.
func (h *RecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case path == "/api/records" && r.Method == http.MethodGet:
		h.list(w, r)
	case path == "/api/records" && r.Method == http.MethodPost:
		h.create(w, r)
	case path == "/api/records/buckets" && r.Method == http.MethodGet:
		h.buckets(w)
	case strings.HasPrefix(path, "/api/records/"):
		id := strings.TrimPrefix(path, "/api/records/")
		switch r.Method {
		case http.MethodGet:
			h.get(w, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *RecordHandler) list(w http.ResponseWriter, r *http.Request) {
	criteria := make(map[string]any)
	query := r.URL.Query()

	if letter := query.Get("letter"); letter != "" {
		criteria["artist_letter"] = letter
	}
	if source := query.Get("source"); source != "" {
		criteria["source"] = source
	}
	if raw := query.Get("synced"); raw != "" {
		synced, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "synced must be a boolean")
			return
		}
		criteria["synced"] = synced
	}

	records, err := h.repo.List(criteria)
	if err != nil {
		h.logger.Error("failed to list records", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (h *RecordHandler) create(w http.ResponseWriter, r *http.Request) {
	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.repo.Create(&record); err != nil {
		switch {
		case errors.Is(err, shared.ErrDuplicateRecord):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, shared.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create record", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create record")
		}
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) get(w http.ResponseWriter, id string) {
	record, err := h.repo.Get(id)
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		h.logger.Error("failed to get record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get record")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	record.ID = id

	if err := h.repo.Update(&record); err != nil {
		switch {
		case errors.Is(err, shared.ErrRecordNotFound):
			writeError(w, http.StatusNotFound, "record not found")
		case errors.Is(err, shared.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update record", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update record")
		}
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) delete(w http.ResponseWriter, id string) {
	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		h.logger.Error("failed to delete record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordHandler) buckets(w http.ResponseWriter) {
	buckets, err := h.repo.Buckets()
	if err != nil {
		h.logger.Error("failed to load buckets", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load buckets")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buckets": buckets})
}

// SyncRunner is the slice of the sync engine the handler depends on.
// Abstracted for testing; *tasks.CollectionEngine satisfies it.
type SyncRunner interface {
	Run(ctx context.Context, progress chan<- tasks.Progress) (*tasks.Progress, error)
}

// SyncHandler streams collection sync progress as Server-Sent Events.
//
// Every request builds a fresh engine through newRun so each run gets its own
// shared client and rate limiter. Snapshots stream as "progress" events; the
// final snapshot streams as a single "done" event. A fatal precondition error
// (no username configured) never emits a done snapshot from the engine, so the
// handler synthesizes one carrying the error message.
type SyncHandler struct {
	newRun func() SyncRunner
	logger *log.Logger
}

// NewSyncHandler creates a sync streaming handler. newRun must return a fresh
// engine per call.
func NewSyncHandler(newRun func() SyncRunner, logger *log.Logger) *SyncHandler {
	return &SyncHandler{newRun: newRun, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SyncHandler) Routes() []string {
	return []string{"/api/sync"}
}

// ServeHTTP runs one sync pass, streaming progress until the done event.
//
// Client disconnects cancel the request context, which stops the engine
// between remote calls.
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	type runResult struct {
		final *tasks.Progress
		err   error
	}

	progressCh := make(chan tasks.Progress, 8)
	resultCh := make(chan runResult, 1)

	runner := h.newRun()
	go func() {
		final, err := runner.Run(r.Context(), progressCh)
		close(progressCh)
		resultCh <- runResult{final: final, err: err}
	}()

	for snapshot := range progressCh {
		name := "progress"
		if snapshot.Phase == tasks.PhaseDone {
			name = "done"
		}
		h.writeEvent(w, flusher, name, snapshot)
	}

	result := <-resultCh
	if result.err != nil {
		h.logger.Error("sync run failed", "error", result.err)
		done := tasks.Progress{Phase: tasks.PhaseDone, Errors: []string{result.err.Error()}}
		if result.final != nil {
			done = *result.final
			done.Phase = tasks.PhaseDone
			done.Errors = append(done.Errors, result.err.Error())
		}
		h.writeEvent(w, flusher, "done", done)
	}
}

func (h *SyncHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, name string, snapshot tasks.Progress) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error("failed to marshal progress event", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	flusher.Flush()
}

// Health returns a handler for the liveness endpoint.
func Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
