// Package container extracts embedded images from BMT capture files under a
// finalized layout description. Two layout kinds are supported: raw 16-bit
// pixel blocks, which are decoded, normalized, and color-mapped; and
// embedded sub-containers, which are copied verbatim with their declared
// size repaired when the instrument wrote a stale value. Extraction requires
// no scanning at run time; the layout comes from a format profile.
//
// Per-spec failures are recorded on their result and never abort the batch:
// a capture with one malformed image still yields its other images.
package container
