package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/nao1215/bmtscan/internal/decode"
)

// Sub-container header field offsets, relative to the sub-container start.
// These follow the standard raster info-header layout the instrument embeds.
const (
	subDataOffsetField = 10
	subWidthField      = 18
	subHeightField     = 22
	subBitDepthField   = 28

	// minSubContainerSize is the smallest self-consistent sub-container:
	// file header plus info header.
	minSubContainerSize = 14 + 40
)

// extractEmbedded copies a complete embedded raster file out of the outer
// buffer, repairing its declared size field when the stored value is stale.
func (e *Extractor) extractEmbedded(buf []byte, spec EmbeddedContainer) ([]byte, error) {
	start := spec.Start

	if start < 0 || start+len(e.magic) > len(buf) {
		return nil, fmt.Errorf("container start %d outside buffer of %d bytes", start, len(buf))
	}
	if !bytes.Equal(buf[start:start+len(e.magic)], e.magic) {
		return nil, fmt.Errorf("no %q magic at offset %d", e.magic, start)
	}

	declared, ok := decode.U32LE(buf, start+e.sizeFieldOffset)
	if !ok {
		return nil, fmt.Errorf("declared size field at %d outside buffer", start+e.sizeFieldOffset)
	}

	size := int(declared)
	repaired := false

	// A declared size covering the whole outer file (or more), or smaller
	// than a minimal header, is a stale self-description; recompute the true
	// size from the sub-container's own geometry fields.
	if size < minSubContainerSize || size >= len(buf) || start+size > len(buf) {
		recomputed, err := e.sizeFromGeometry(buf, start)
		if err != nil {
			return nil, fmt.Errorf("implausible declared size %d and %w", declared, err)
		}
		if recomputed < minSubContainerSize {
			return nil, fmt.Errorf("implausible declared size %d and recomputed size %d below minimal header", declared, recomputed)
		}
		size = recomputed
		repaired = true
	}

	if start+size > len(buf) {
		return nil, fmt.Errorf("container [%d, %d) extends past buffer of %d bytes", start, start+size, len(buf))
	}

	out := make([]byte, size)
	copy(out, buf[start:start+size])

	if repaired {
		// Rewrite the size field so the extracted file is self-consistent.
		binary.LittleEndian.PutUint32(out[e.sizeFieldOffset:], uint32(size)) //nolint:gosec // Bounded by capture size
		e.logger.Debug("repaired embedded container size",
			"label", spec.SpecLabel,
			"declared", declared,
			"corrected", size,
		)
	}

	return out, nil
}

// sizeFromGeometry recomputes a sub-container's total size from its own
// header: pixel data offset plus row stride (padded to a 4-byte boundary)
// times the row count.
func (e *Extractor) sizeFromGeometry(buf []byte, start int) (int, error) {
	dataOffset, ok1 := decode.U32LE(buf, start+subDataOffsetField)
	width, ok2 := decode.I32LE(buf, start+subWidthField)
	height, ok3 := decode.I32LE(buf, start+subHeightField)
	bitDepth, ok4 := decode.U16LE(buf, start+subBitDepthField)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, fmt.Errorf("geometry fields at %d outside buffer", start)
	}

	if width <= 0 || bitDepth == 0 {
		return 0, fmt.Errorf("implausible geometry %dx%d@%d bpp", width, height, bitDepth)
	}

	rows := int(height)
	if rows < 0 {
		// Negative height means top-down row order; the row count is its
		// magnitude.
		rows = -rows
	}
	if rows == 0 {
		return 0, fmt.Errorf("implausible geometry %dx0@%d bpp", width, bitDepth)
	}

	stride := (int(width)*int(bitDepth)/8 + 3) &^ 3
	return int(dataOffset) + stride*rows, nil
}
