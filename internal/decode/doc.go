// Package decode provides bounds-checked numeric decoding over raw byte
// buffers and run-length grouping of classification masks. It is the shared
// low-level layer under all scanners and the extractor: a read past the end
// of a buffer is an ordinary boundary condition reported through the ok
// return, never a panic or an error value.
package decode
