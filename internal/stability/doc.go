// Package stability classifies byte ranges of a container corpus as stable
// or varying. A byte offset is stable iff every corpus member holds the
// identical value there; a single differing byte anywhere in the corpus
// disqualifies the offset. The full range is always examined — stability over
// the whole corpus is the point of the analysis, so sampling would be a
// correctness bug, not an optimization.
package stability
