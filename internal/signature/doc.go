// Package signature locates encodings of known image dimensions inside an
// opaque container buffer. The format carries no schema, so the scanner
// serializes each known (width, height) pair under every candidate encoding
// and searches for the raw byte patterns, recording surrounding context for
// manual inspection. Hits are leads for deriving a layout hypothesis, not
// proof of structure.
package signature
