package models

import (
	"fmt"
	"time"
)

// DataSource marks where a record's metadata came from.
type DataSource string

const (
	SourceDiscogs DataSource = "discogs"
	SourceManual  DataSource = "manual"
)

// Record represents one vinyl record in the local collection.
//
// DiscogsID is the join key between local and remote state. It is string-typed
// on purpose: Discogs release ids are numeric but nothing here does arithmetic
// on them, and string ids avoid overflow and casting concerns. At most one
// record may hold a given non-empty DiscogsID.
type Record struct {
	ID            string     `json:"id"`
	ArtistName    string     `json:"artist_name"`
	AlbumTitle    string     `json:"album_title"`
	YearReleased  int        `json:"year_released,omitempty"`
	LabelName     string     `json:"label_name,omitempty"`
	CatalogNumber string     `json:"catalog_number,omitempty"`
	DiscogsID     string     `json:"discogs_id,omitempty"`
	DiscogsURI    string     `json:"discogs_uri,omitempty"`
	Synced        bool       `json:"is_synced_with_discogs"`
	ThumbnailURL  string     `json:"thumbnail_url,omitempty"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	Genres        []string   `json:"genres"`
	Styles        []string   `json:"styles"`
	UPCCode       string     `json:"upc_code,omitempty"`
	RecordSize    string     `json:"record_size,omitempty"`
	VinylColor    string     `json:"vinyl_color,omitempty"`
	Shaped        bool       `json:"is_shaped_vinyl"`
	Source        DataSource `json:"data_source"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Validate checks that the record carries the minimum fields required for
// persistence.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if r.ArtistName == "" {
		return fmt.Errorf("artist name is required")
	}
	if r.AlbumTitle == "" {
		return fmt.Errorf("album title is required")
	}
	switch r.Source {
	case SourceDiscogs, SourceManual:
	default:
		return fmt.Errorf("invalid data source %q", r.Source)
	}
	return nil
}

// Touch sets UpdatedAt. Every mutating operation calls this explicitly; the
// schema has no automatic trigger.
func (r *Record) Touch(now time.Time) {
	r.UpdatedAt = now
}

// SyncState is the projection of a record the sync engine's push phase needs.
type SyncState struct {
	ID        string
	DiscogsID string
	Synced    bool
}
