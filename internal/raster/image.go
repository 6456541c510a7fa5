package raster

// Orientation records whether a decoded image's sample order has been
// corrected for the sensor's native mounting.
type Orientation string

const (
	// OrientationNative means samples are in the order stored in the container.
	OrientationNative Orientation = "native"
	// OrientationRotated180 means a 180° row-and-column reversal has been
	// applied to correct the sensor's upside-down mounting.
	OrientationRotated180 Orientation = "rotated180"
)

// Image is a decoded raster ready for encoding. For BitDepth 8, Pix holds
// one grayscale index per pixel; for BitDepth 24, Pix holds RGB triples.
// Rows are top-down in memory; the BMP encoder handles the bottom-up wire
// convention itself.
type Image struct {
	// Width is the pixel width. Always positive.
	Width int

	// Height is the pixel height. Always positive.
	Height int

	// BitDepth is 8 (grayscale) or 24 (color).
	BitDepth int

	// Pix is the pixel buffer, Width*Height bytes for 8-bit images and
	// Width*Height*3 bytes for 24-bit images, row-major top-down.
	Pix []byte

	// Orientation records the correction applied during decoding.
	Orientation Orientation
}

// NewGrayscale allocates an 8-bit image.
func NewGrayscale(width, height int) *Image {
	return &Image{
		Width:       width,
		Height:      height,
		BitDepth:    8,
		Pix:         make([]byte, width*height),
		Orientation: OrientationNative,
	}
}

// NewColor allocates a 24-bit image.
func NewColor(width, height int) *Image {
	return &Image{
		Width:       width,
		Height:      height,
		BitDepth:    24,
		Pix:         make([]byte, width*height*3),
		Orientation: OrientationNative,
	}
}
