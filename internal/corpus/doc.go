// Package corpus loads BMT container files into memory for analysis.
//
// Captures are small (low single-digit megabytes), so every file is read
// whole; all downstream analysis operates over the in-memory buffers with no
// streaming or partial reads. Cross-file comparisons are always bounded by
// the shortest member's length, which MinLen exposes.
package corpus
