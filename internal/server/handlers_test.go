package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"crate/internal/models"
	"crate/internal/repositories"
	"crate/internal/shared"
	"crate/internal/tasks"
)

func newTestRouter(t *testing.T) (*BasicRouter, *repositories.RecordRepository) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	logger := log.New(io.Discard)
	repo := repositories.NewRecordRepository(db)

	router := NewBasicRouter()
	router.Handler(NewRecordHandler(repo, logger))
	router.Handle(http.MethodGet, "/health", Health())

	return router, repo
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordHandler(t *testing.T) {
	t.Run("Create And Get Round Trip", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := postJSON(t, router, "/api/records", models.Record{
			ArtistName: "Portishead",
			AlbumTitle: "Dummy",
			Source:     models.SourceManual,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
		}

		var created models.Record
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if created.ID == "" {
			t.Fatal("expected generated id in response")
		}

		req := httptest.NewRequest(http.MethodGet, "/api/records/"+created.ID, nil)
		got := httptest.NewRecorder()
		router.ServeHTTP(got, req)
		if got.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", got.Code)
		}
		if !strings.Contains(got.Body.String(), "Portishead") {
			t.Errorf("unexpected body %s", got.Body)
		}
	})

	t.Run("Create Without Artist Is Bad Request", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := postJSON(t, router, "/api/records", models.Record{AlbumTitle: "Untitled"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body)
		}
	})

	t.Run("Duplicate DiscogsID Is Conflict", func(t *testing.T) {
		router, _ := newTestRouter(t)

		record := models.Record{ArtistName: "Burial", AlbumTitle: "Untrue", DiscogsID: "1037247", Source: models.SourceManual}
		if rec := postJSON(t, router, "/api/records", record); rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if rec := postJSON(t, router, "/api/records", record); rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body)
		}
	})

	t.Run("Get Missing Is Not Found", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/records/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("List Filters By Letter", func(t *testing.T) {
		router, repo := newTestRouter(t)

		for _, record := range []*models.Record{
			{ArtistName: "Aphex Twin", AlbumTitle: "Drukqs", Source: models.SourceManual},
			{ArtistName: "Zomby", AlbumTitle: "Dedication", Source: models.SourceManual},
		} {
			if err := repo.Create(record); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/api/records?letter=A", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body struct {
			Records []models.Record `json:"records"`
			Count   int             `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Count != 1 || body.Records[0].ArtistName != "Aphex Twin" {
			t.Errorf("unexpected filtered list %+v", body)
		}
	})

	t.Run("Buckets Endpoint", func(t *testing.T) {
		router, repo := newTestRouter(t)

		if err := repo.Create(&models.Record{ArtistName: "2Pac", AlbumTitle: "All Eyez on Me", Source: models.SourceManual}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/records/buckets", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"#"`) {
			t.Errorf("expected # bucket, got %s", rec.Body)
		}
	})

	t.Run("Delete Then Get Is Not Found", func(t *testing.T) {
		router, repo := newTestRouter(t)

		record := &models.Record{ArtistName: "Boards of Canada", AlbumTitle: "Geogaddi", Source: models.SourceManual}
		if err := repo.Create(record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodDelete, "/api/records/"+record.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/api/records/"+record.ID, nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", rec.Code)
		}
	})

	t.Run("Health Endpoint", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

// fakeRunner is a scripted [SyncRunner] for exercising the SSE stream.
type fakeRunner struct {
	snapshots []tasks.Progress
	final     *tasks.Progress
	err       error
}

func (f *fakeRunner) Run(ctx context.Context, progress chan<- tasks.Progress) (*tasks.Progress, error) {
	for _, snapshot := range f.snapshots {
		select {
		case progress <- snapshot:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.final, f.err
}

func TestSyncHandler(t *testing.T) {
	serve := func(t *testing.T, runner SyncRunner) *httptest.ResponseRecorder {
		t.Helper()

		handler := NewSyncHandler(func() SyncRunner { return runner }, log.New(io.Discard))
		req := httptest.NewRequest(http.MethodGet, "/api/sync", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Streams Progress Then Done", func(t *testing.T) {
		final := tasks.Progress{Phase: tasks.PhaseDone, Pulled: 2, Errors: []string{}}
		runner := &fakeRunner{
			snapshots: []tasks.Progress{
				{Phase: tasks.PhasePull, Pulled: 1, Errors: []string{}},
				{Phase: tasks.PhasePull, Pulled: 2, Errors: []string{}},
				final,
			},
			final: &final,
		}

		rec := serve(t, runner)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
			t.Errorf("unexpected content type %q", got)
		}

		body := rec.Body.String()
		if got := strings.Count(body, "event: progress"); got != 2 {
			t.Errorf("expected 2 progress events, got %d in %s", got, body)
		}
		if got := strings.Count(body, "event: done"); got != 1 {
			t.Errorf("expected exactly one done event, got %d in %s", got, body)
		}
		if !strings.Contains(body, `"pulled":2`) {
			t.Errorf("expected final counters in stream, got %s", body)
		}
	})

	t.Run("Fatal Error Synthesizes Done Event", func(t *testing.T) {
		runner := &fakeRunner{
			err: fmt.Errorf("%w: set discogs.username in config.toml", shared.ErrMissingUsername),
		}

		rec := serve(t, runner)
		body := rec.Body.String()
		if got := strings.Count(body, "event: done"); got != 1 {
			t.Fatalf("expected exactly one done event, got %d in %s", got, body)
		}
		if !strings.Contains(body, "username") {
			t.Errorf("expected error message in done event, got %s", body)
		}
	})

	t.Run("Rejects Non GET", func(t *testing.T) {
		handler := NewSyncHandler(func() SyncRunner { return &fakeRunner{} }, log.New(io.Discard))
		req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}
