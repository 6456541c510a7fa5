// Package raster holds the decoded in-memory image type, the piecewise
// linear thermal color ramp, and the fixed BMP output encoder. The encoder
// is a bit-exact contract: bottom-up rows padded to 4-byte boundaries, a
// 40-byte info header, and a 256-entry grayscale palette for 8-bit output.
package raster
