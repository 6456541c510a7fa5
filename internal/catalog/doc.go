// Package catalog provides SQLite-based storage for inspection reports and
// extraction records.
//
// Reverse engineering a container format is an iterative process spanning
// many sessions; the catalog preserves every run so results can be compared
// as profiles evolve.
//
// Design decision: We use a single database file for all corpora rather
// than one file per corpus. This simplifies cross-corpus queries and
// backup/restore operations.
package catalog
