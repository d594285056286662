package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crate/internal/models"
	"crate/internal/shared"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// syncBatchSize bounds the number of ids per UPDATE ... IN (...) statement.
const syncBatchSize = 500

const recordColumns = `id, artist_name, album_title, year_released, label_name, catalog_number,
	discogs_id, discogs_uri, is_synced, thumbnail_url, cover_image_url,
	genres, styles, upc_code, record_size, vinyl_color, is_shaped,
	data_source, created_at, updated_at`

// Bucket is one alphabetical navigation bucket ("#", "A".."Z") with its record count.
type Bucket struct {
	Letter string `json:"letter"`
	Count  int    `json:"count"`
}

// RecordRepository handles CRUD and sync bookkeeping for [models.Record].
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a new record, generating an id when absent and stamping both
// timestamps. A uniqueness violation on discogs_id returns
// [shared.ErrDuplicateRecord].
func (r *RecordRepository) Create(record *models.Record) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.Touch(now)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	genres, styles, err := encodeTags(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID,
		record.ArtistName,
		record.AlbumTitle,
		nullInt(record.YearReleased),
		nullStr(record.LabelName),
		nullStr(record.CatalogNumber),
		nullStr(record.DiscogsID),
		nullStr(record.DiscogsURI),
		record.Synced,
		nullStr(record.ThumbnailURL),
		nullStr(record.CoverImageURL),
		genres,
		styles,
		nullStr(record.UPCCode),
		nullStr(record.RecordSize),
		nullStr(record.VinylColor),
		record.Shaped,
		string(record.Source),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: discogs id %q", shared.ErrDuplicateRecord, record.DiscogsID)
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// Get retrieves a record by id.
func (r *RecordRepository) Get(id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByDiscogsID retrieves a record by its external Discogs release id.
func (r *RecordRepository) GetByDiscogsID(discogsID string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE discogs_id = ?`
	return r.scanOne(r.db.QueryRow(query, discogsID))
}

// Update modifies an existing record and stamps updated_at.
func (r *RecordRepository) Update(record *models.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	record.Touch(time.Now().UTC())

	genres, styles, err := encodeTags(record)
	if err != nil {
		return err
	}

	query := `
		UPDATE records
		SET artist_name = ?, album_title = ?, year_released = ?, label_name = ?,
			catalog_number = ?, discogs_id = ?, discogs_uri = ?, is_synced = ?,
			thumbnail_url = ?, cover_image_url = ?, genres = ?, styles = ?,
			upc_code = ?, record_size = ?, vinyl_color = ?, is_shaped = ?,
			data_source = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		record.ArtistName,
		record.AlbumTitle,
		nullInt(record.YearReleased),
		nullStr(record.LabelName),
		nullStr(record.CatalogNumber),
		nullStr(record.DiscogsID),
		nullStr(record.DiscogsURI),
		record.Synced,
		nullStr(record.ThumbnailURL),
		nullStr(record.CoverImageURL),
		genres,
		styles,
		nullStr(record.UPCCode),
		nullStr(record.RecordSize),
		nullStr(record.VinylColor),
		record.Shaped,
		string(record.Source),
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: discogs id %q", shared.ErrDuplicateRecord, record.DiscogsID)
		}
		return fmt.Errorf("failed to update record: %w", err)
	}

	return requireRowsAffected(result, record.ID)
}

// Delete removes a record by id. Deletes are hard; the collection has no
// soft-delete semantics.
func (r *RecordRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return requireRowsAffected(result, id)
}

// List retrieves records matching the given criteria, ordered by artist then title.
func (r *RecordRepository) List(criteria map[string]any) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE 1=1`
	args := []any{}

	if letter, ok := criteria["artist_letter"].(string); ok && letter != "" {
		if letter == "#" {
			query += " AND UPPER(SUBSTR(artist_name, 1, 1)) NOT BETWEEN 'A' AND 'Z'"
		} else {
			query += " AND UPPER(SUBSTR(artist_name, 1, 1)) = UPPER(?)"
			args = append(args, letter)
		}
	}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND data_source = ?"
		args = append(args, source)
	}

	if synced, ok := criteria["synced"].(bool); ok {
		query += " AND is_synced = ?"
		args = append(args, synced)
	}

	query += " ORDER BY artist_name COLLATE NOCASE ASC, album_title COLLATE NOCASE ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Buckets returns the alphabetical navigation buckets for the collection.
// Artists starting with a non-letter are folded into the "#" bucket, which
// sorts first.
func (r *RecordRepository) Buckets() ([]Bucket, error) {
	rows, err := r.db.Query(`
		SELECT UPPER(SUBSTR(artist_name, 1, 1)) AS letter, COUNT(*)
		FROM records
		GROUP BY letter
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var letter string
		var count int
		if err := rows.Scan(&letter, &count); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
			letter = "#"
		}
		counts[letter] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	var buckets []Bucket
	if n, ok := counts["#"]; ok {
		buckets = append(buckets, Bucket{Letter: "#", Count: n})
	}
	for ch := byte('A'); ch <= 'Z'; ch++ {
		if n, ok := counts[string(ch)]; ok {
			buckets = append(buckets, Bucket{Letter: string(ch), Count: n})
		}
	}

	return buckets, nil
}

// FindAllDiscogsIDs returns the set of discogs ids already present locally.
func (r *RecordRepository) FindAllDiscogsIDs() (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT discogs_id FROM records WHERE discogs_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query discogs ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan discogs id: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// UpdateSyncedFlag sets is_synced for every record whose discogs_id is in ids,
// batching to keep parameter lists bounded.
func (r *RecordRepository) UpdateSyncedFlag(ids []string, synced bool) error {
	now := time.Now().UTC()

	for start := 0; start < len(ids); start += syncBatchSize {
		end := min(start+syncBatchSize, len(ids))
		batch := ids[start:end]

		placeholders := make([]byte, 0, 2*len(batch))
		args := make([]any, 0, len(batch)+2)
		args = append(args, synced, now)
		for i, id := range batch {
			if i > 0 {
				placeholders = append(placeholders, ',')
			}
			placeholders = append(placeholders, '?')
			args = append(args, id)
		}

		query := fmt.Sprintf(
			"UPDATE records SET is_synced = ?, updated_at = ? WHERE discogs_id IN (%s)",
			placeholders,
		)
		if _, err := r.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to update synced flag: %w", err)
		}
	}

	return nil
}

// FindRecordsWithDiscogsID returns the sync projection of every record that
// carries a discogs id.
func (r *RecordRepository) FindRecordsWithDiscogsID() ([]models.SyncState, error) {
	rows, err := r.db.Query(`
		SELECT id, discogs_id, is_synced FROM records WHERE discogs_id IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync states: %w", err)
	}
	defer rows.Close()

	var states []models.SyncState
	for rows.Next() {
		var state models.SyncState
		if err := rows.Scan(&state.ID, &state.DiscogsID, &state.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan sync state: %w", err)
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return states, nil
}

// MarkRecordSynced flags a single record as present in the remote collection.
func (r *RecordRepository) MarkRecordSynced(id string) error {
	result, err := r.db.Exec(
		`UPDATE records SET is_synced = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark record synced: %w", err)
	}
	return requireRowsAffected(result, id)
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan path.
type scanner interface {
	Scan(dest ...any) error
}

func (r *RecordRepository) scanOne(row *sql.Row) (*models.Record, error) {
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRecordNotFound
	}
	return record, err
}

func (r *RecordRepository) scanRow(rows *sql.Rows) (*models.Record, error) {
	return scanRecord(rows)
}

func scanRecord(s scanner) (*models.Record, error) {
	var (
		record     models.Record
		year       sql.NullInt64
		label      sql.NullString
		catno      sql.NullString
		discogsID  sql.NullString
		discogsURI sql.NullString
		thumb      sql.NullString
		cover      sql.NullString
		genres     string
		styles     string
		upc        sql.NullString
		size       sql.NullString
		color      sql.NullString
		source     string
	)

	err := s.Scan(
		&record.ID, &record.ArtistName, &record.AlbumTitle, &year, &label, &catno,
		&discogsID, &discogsURI, &record.Synced, &thumb, &cover,
		&genres, &styles, &upc, &size, &color, &record.Shaped,
		&source, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	record.YearReleased = int(year.Int64)
	record.LabelName = label.String
	record.CatalogNumber = catno.String
	record.DiscogsID = discogsID.String
	record.DiscogsURI = discogsURI.String
	record.ThumbnailURL = thumb.String
	record.CoverImageURL = cover.String
	record.UPCCode = upc.String
	record.RecordSize = size.String
	record.VinylColor = color.String
	record.Source = models.DataSource(source)

	if err := json.Unmarshal([]byte(genres), &record.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres: %w", err)
	}
	if err := json.Unmarshal([]byte(styles), &record.Styles); err != nil {
		return nil, fmt.Errorf("failed to decode styles: %w", err)
	}

	return &record, nil
}

// encodeTags serializes the genre and style lists, defaulting nils to empty lists.
func encodeTags(record *models.Record) (string, string, error) {
	if record.Genres == nil {
		record.Genres = []string{}
	}
	if record.Styles == nil {
		record.Styles = []string{}
	}

	genres, err := json.Marshal(record.Genres)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode genres: %w", err)
	}
	styles, err := json.Marshal(record.Styles)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode styles: %w", err)
	}
	return string(genres), string(styles), nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func requireRowsAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}
	return nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
