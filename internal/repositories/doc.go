// package repositories provides the persistence layer for the record collection.
//
// RecordRepository wraps database/sql over SQLite and surfaces uniqueness
// violations on discogs_id as [shared.ErrDuplicateRecord], so callers branch
// on a stable error tag instead of matching driver message text.
package repositories
