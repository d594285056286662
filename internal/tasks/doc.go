// package tasks implements the two-phase collection sync between the local
// record store and a user's remote Discogs collection.
//
// The core abstraction is [CollectionEngine], which pulls unseen remote
// releases into the store, then pushes unsynced local records back to the
// remote collection. Progress snapshots are emitted over a channel for
// non-blocking status reporting to the CLI, TUI, or HTTP layers.
package tasks
