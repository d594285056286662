// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and syncing the collection:
//  1. [RecordListView] : Browse the local collection, filterable by typing
//  2. [ConfirmView] : Confirm a sync run against the remote collection
//  3. [SyncView] : Monitor real-time pull/push progress
//  4. [ResultView] : Display final counters and any per-item failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress snapshots flow through a channel from the CollectionEngine, providing non-blocking status reporting during syncs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
