// Package sidecar loads the tab-delimited capture metadata files operators
// keep next to their BMT captures: one row per capture with focus distance
// and the true thermal scale bounds. The file format is a human artifact —
// decimal commas, optional header rows, stray lines — so loading is lenient:
// unparsable rows are skipped, never fatal.
package sidecar
