package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crate/internal/discogs"
	"crate/internal/models"
	"crate/internal/shared"
)

// defaultPageSize is the per_page value used against the collection endpoint.
const defaultPageSize = 100

// CollectionAPI is the slice of the Discogs client the engine depends on.
// Abstracted for testing; *discogs.Client satisfies it.
type CollectionAPI interface {
	GetUserCollection(ctx context.Context, username string, page, perPage int) (*discogs.CollectionPage, error)
	AddToCollection(ctx context.Context, username, releaseID string) error
}

// RecordStore is the persistence contract the engine reads and writes through.
// *repositories.RecordRepository satisfies it.
type RecordStore interface {
	FindAllDiscogsIDs() (map[string]struct{}, error)
	Create(record *models.Record) error
	UpdateSyncedFlag(ids []string, synced bool) error
	FindRecordsWithDiscogsID() ([]models.SyncState, error)
	MarkRecordSynced(id string) error
}

// CollectionEngine reconciles local and remote collection state in both
// directions. It never deletes anything on either side; every per-item
// failure is absorbed into the run's error list so one bad release cannot
// abort a multi-hundred-item sync.
//
// The engine issues remote calls strictly sequentially through the one shared
// client, which is what makes the client's rate limiter effective. Concurrent
// runs against the same store are not safe; callers serialize sync runs.
type CollectionEngine struct {
	api      CollectionAPI
	store    RecordStore
	username string
	pageSize int
}

// NewCollectionEngine creates a sync engine for the given remote username.
// A pageSize <= 0 falls back to the default of 100.
func NewCollectionEngine(api CollectionAPI, store RecordStore, username string, pageSize int) *CollectionEngine {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CollectionEngine{
		api:      api,
		store:    store,
		username: username,
		pageSize: pageSize,
	}
}

// emit delivers a snapshot in order, backing off only for caller cancellation.
func (e *CollectionEngine) emit(ctx context.Context, progress chan<- Progress, p Progress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}

// Run executes one pull-then-push reconciliation pass.
//
// The only fatal error is a missing username, returned before any remote
// call. Cancellation stops the run between remote calls and returns the
// progress so far alongside the context's error. In every other case the run
// reaches the done phase and the final snapshot's error list tells the caller
// whether it was fully clean.
func (e *CollectionEngine) Run(ctx context.Context, progress chan<- Progress) (*Progress, error) {
	if e.username == "" {
		return nil, fmt.Errorf("%w: set discogs.username in config.toml", shared.ErrMissingUsername)
	}

	state := newRunState()
	seen := make(map[string]struct{})

	if err := e.pull(ctx, progress, state, seen); err != nil {
		final := state.snapshot()
		return &final, err
	}

	state.phase = PhasePush
	if err := e.push(ctx, progress, state, seen); err != nil {
		final := state.snapshot()
		return &final, err
	}

	state.phase = PhaseDone
	final := state.snapshot()
	e.emit(ctx, progress, final)
	return &final, nil
}

// pull pages through the remote collection and inserts unseen releases
// locally. Every remote id encountered is added to seen, regardless of
// whether the item was pulled, skipped, or failed.
func (e *CollectionEngine) pull(ctx context.Context, progress chan<- Progress, state *runState, seen map[string]struct{}) error {
	known, err := e.store.FindAllDiscogsIDs()
	if err != nil {
		// Not fatal: proceed with an empty set and let the unique index
		// convert re-inserts into skips.
		state.fail("failed to load local discogs ids: %v", err)
		known = make(map[string]struct{})
	}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		remote, err := e.api.GetUserCollection(ctx, e.username, page, e.pageSize)
		if err != nil {
			state.fail("failed to fetch collection page %d: %v", page, err)
			break
		}

		state.total = remote.Pagination.Items

		for _, item := range remote.Releases {
			id := strconv.Itoa(item.ID)
			seen[id] = struct{}{}

			if _, ok := known[id]; ok {
				state.skipped++
				continue
			}

			record := buildRecord(item)
			if err := e.store.Create(record); err != nil {
				if errors.Is(err, shared.ErrDuplicateRecord) {
					// Concurrent insert or the same release on two pages;
					// steady state, not an error.
					state.skipped++
				} else {
					state.fail("failed to insert release %s: %v", id, err)
				}
				continue
			}

			state.pulled++
			known[id] = struct{}{}
		}

		e.emit(ctx, progress, state.snapshot())

		if page >= remote.Pagination.Pages {
			break
		}
	}

	if len(seen) > 0 {
		ids := make([]string, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		if err := e.store.UpdateSyncedFlag(ids, true); err != nil {
			state.fail("failed to update synced flags: %v", err)
		}
	}

	return nil
}

// push adds local records missing from the remote collection. Records the
// pull phase just saw remotely are excluded up front so the engine does not
// rely on 409 responses for the common case.
func (e *CollectionEngine) push(ctx context.Context, progress chan<- Progress, state *runState, seen map[string]struct{}) error {
	states, err := e.store.FindRecordsWithDiscogsID()
	if err != nil {
		state.fail("failed to load local records for push: %v", err)
		return nil
	}

	for _, record := range states {
		if record.Synced {
			continue
		}
		if _, ok := seen[record.DiscogsID]; ok {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		err := e.api.AddToCollection(ctx, e.username, record.DiscogsID)
		switch {
		case err == nil, discogs.IsStatus(err, http.StatusConflict):
			// 409 means the release is already in the remote collection:
			// confirmation, not failure.
			if err := e.store.MarkRecordSynced(record.ID); err != nil {
				state.fail("failed to mark record %s synced: %v", record.DiscogsID, err)
			}
			state.pushed++
		default:
			state.fail("failed to push release %s: %v", record.DiscogsID, err)
		}

		e.emit(ctx, progress, state.snapshot())
	}

	return nil
}

// buildRecord converts one remote collection entry into a local record.
// Artist and label take the first element of their arrays; missing tag
// arrays default to empty lists rather than NULL.
func buildRecord(item discogs.CollectionRelease) *models.Record {
	info := item.BasicInformation

	record := &models.Record{
		AlbumTitle:    info.Title,
		YearReleased:  info.Year,
		DiscogsID:     strconv.Itoa(item.ID),
		ThumbnailURL:  info.Thumb,
		CoverImageURL: info.CoverImage,
		Genres:        info.Genres,
		Styles:        info.Styles,
		RecordSize:    discogs.ExtractRecordSize(info.Formats),
		VinylColor:    discogs.ExtractVinylColor(info.Formats),
		Shaped:        discogs.IsShapedVinyl(info.Formats),
		Source:        models.SourceDiscogs,
		Synced:        true,
	}

	if len(info.Artists) > 0 {
		record.ArtistName = info.Artists[0].Name
	}
	if len(info.Labels) > 0 {
		record.LabelName = info.Labels[0].Name
		record.CatalogNumber = info.Labels[0].CatNo
	}
	if record.Genres == nil {
		record.Genres = []string{}
	}
	if record.Styles == nil {
		record.Styles = []string{}
	}

	return record
}
