package raster

import (
	"encoding/binary"
	"fmt"
	"io"
)

// BMP layout constants.
const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	paletteEntries = 256
	paletteSize    = paletteEntries * 4
)

// EncodeBMP writes img as an uncompressed Windows BMP: little-endian file
// header, 40-byte info header, a 256-entry grayscale color table for 8-bit
// images, then pixel rows bottom-up with each row padded to a multiple of
// four bytes. 24-bit rows are written BGR per the format.
//
// The bottom-up row order is a property of the output format and is
// independent of any orientation correction already applied to the sample
// order of img.
func EncodeBMP(w io.Writer, img *Image) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid raster geometry %dx%d", img.Width, img.Height)
	}

	var bytesPerPixel, palette int
	switch img.BitDepth {
	case 8:
		bytesPerPixel = 1
		palette = paletteSize
	case 24:
		bytesPerPixel = 3
	default:
		return fmt.Errorf("unsupported bit depth %d", img.BitDepth)
	}

	if want := img.Width * img.Height * bytesPerPixel; len(img.Pix) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d", len(img.Pix), want)
	}

	rowSize := img.Width * bytesPerPixel
	stride := (rowSize + 3) &^ 3
	imageSize := stride * img.Height
	dataOffset := fileHeaderSize + infoHeaderSize + palette
	fileSize := dataOffset + imageSize

	header := make([]byte, dataOffset)

	// File header.
	header[0] = 'B'
	header[1] = 'M'
	binary.LittleEndian.PutUint32(header[2:], uint32(fileSize)) //nolint:gosec // Bounded by capture size
	// Bytes 6..10 are the two reserved fields, left zero.
	binary.LittleEndian.PutUint32(header[10:], uint32(dataOffset)) //nolint:gosec // Small constant

	// Info header.
	binary.LittleEndian.PutUint32(header[14:], infoHeaderSize)
	binary.LittleEndian.PutUint32(header[18:], uint32(img.Width))  //nolint:gosec // Positive, validated
	binary.LittleEndian.PutUint32(header[22:], uint32(img.Height)) //nolint:gosec // Positive, validated
	binary.LittleEndian.PutUint16(header[26:], 1)                  // planes
	binary.LittleEndian.PutUint16(header[28:], uint16(img.BitDepth))
	binary.LittleEndian.PutUint32(header[30:], 0) // no compression
	binary.LittleEndian.PutUint32(header[34:], uint32(imageSize)) //nolint:gosec // Bounded by capture size
	// Bytes 38..46 are the two resolution fields, left zero.
	if img.BitDepth == 8 {
		binary.LittleEndian.PutUint32(header[46:], paletteEntries)
		binary.LittleEndian.PutUint32(header[50:], paletteEntries)

		// Identity grayscale palette: entry i = (i, i, i, 0) as BGRA on the wire.
		for i := 0; i < paletteEntries; i++ {
			off := fileHeaderSize + infoHeaderSize + i*4
			header[off] = byte(i)
			header[off+1] = byte(i)
			header[off+2] = byte(i)
		}
	}

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write raster header: %w", err)
	}

	// Pixel rows, last row first.
	row := make([]byte, stride)
	for y := img.Height - 1; y >= 0; y-- {
		src := img.Pix[y*rowSize : (y+1)*rowSize]
		if img.BitDepth == 24 {
			// RGB in memory, BGR on the wire.
			for x := 0; x < img.Width; x++ {
				row[x*3] = src[x*3+2]
				row[x*3+1] = src[x*3+1]
				row[x*3+2] = src[x*3]
			}
		} else {
			copy(row, src)
		}
		for i := rowSize; i < stride; i++ {
			row[i] = 0
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write raster row %d: %w", y, err)
		}
	}

	return nil
}
