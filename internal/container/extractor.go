package container

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/nao1215/bmtscan/internal/decode"
	"github.com/nao1215/bmtscan/internal/profile"
	"github.com/nao1215/bmtscan/internal/raster"
)

// Result is the outcome of one ImageSpec: a decoded raster for raw blocks,
// verbatim bytes for embedded containers, or a per-spec error. Exactly one
// of Raster, Container, and Err is set.
type Result struct {
	// Label is the image spec's label.
	Label string

	// Raster is the decoded image for RawPixelBlock specs.
	Raster *raster.Image

	// Container is the (possibly size-repaired) byte copy for
	// EmbeddedContainer specs.
	Container []byte

	// Err records why this spec failed. Other specs are unaffected.
	Err error
}

// Extractor extracts images from container buffers under one format
// profile's embedded-container parameters and color ramp.
type Extractor struct {
	// magic is the expected sub-container signature.
	magic []byte

	// sizeFieldOffset is the offset of the declared size field within a
	// sub-container.
	sizeFieldOffset int

	// ramp is the thermal color ramp applied to thermal renders.
	ramp []raster.Stop

	// logger is used for per-spec diagnostics.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger for extraction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithRamp overrides the thermal color ramp.
func WithRamp(ramp []raster.Stop) Option {
	return func(e *Extractor) {
		e.ramp = ramp
	}
}

// NewExtractor creates an Extractor for the given profile.
func NewExtractor(p profile.Profile, opts ...Option) *Extractor {
	e := &Extractor{
		magic:           []byte(p.EmbeddedMagic),
		sizeFieldOffset: p.SizeFieldOffset,
		ramp:            raster.ThermalRamp(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Extract processes every spec against buf and returns one result per spec
// in order. Per-spec failures are recorded on their result; the batch never
// aborts.
func (e *Extractor) Extract(buf []byte, specs []ImageSpec) []Result {
	results := make([]Result, 0, len(specs))

	for _, spec := range specs {
		result := Result{Label: spec.Label()}

		switch s := spec.(type) {
		case RawPixelBlock:
			result.Raster, result.Err = e.extractRaw(buf, s)
		case EmbeddedContainer:
			result.Container, result.Err = e.extractEmbedded(buf, s)
		}

		if result.Err != nil {
			e.logger.Warn("image spec failed",
				"label", result.Label,
				"error", result.Err,
			)
		}

		results = append(results, result)
	}

	return results
}

// extractRaw decodes one raw pixel block into a rendered raster.
func (e *Extractor) extractRaw(buf []byte, spec RawPixelBlock) (*raster.Image, error) {
	dataOffset := spec.pixelDataOffset()
	expected := spec.Width * spec.Height * 2

	if dataOffset < 0 {
		return nil, fmt.Errorf("pixel data offset %d is negative", dataOffset)
	}
	if dataOffset+expected > len(buf) {
		return nil, fmt.Errorf("pixel block [%d, %d) extends past buffer of %d bytes",
			dataOffset, dataOffset+expected, len(buf))
	}

	samples := decodeSamples(buf, dataOffset, spec.Width*spec.Height)
	indices := normalize(samples)
	reverse(indices)

	switch spec.Render {
	case RenderThermal:
		img := raster.NewColor(spec.Width, spec.Height)
		img.Orientation = raster.OrientationRotated180
		for i, idx := range indices {
			r, g, b := raster.MapColor(e.ramp, idx)
			img.Pix[i*3] = r
			img.Pix[i*3+1] = g
			img.Pix[i*3+2] = b
		}
		return img, nil
	default:
		img := raster.NewGrayscale(spec.Width, spec.Height)
		img.Orientation = raster.OrientationRotated180
		copy(img.Pix, indices)
		return img, nil
	}
}

// decodeSamples reads count 16-bit little-endian samples starting at off.
// When fewer bytes are present than needed, missing samples are zero and a
// straddling final byte keeps its low byte — partial captures still render
// rather than abort.
func decodeSamples(buf []byte, off, count int) []uint16 {
	samples := make([]uint16, count)
	for i := 0; i < count; i++ {
		pos := off + i*2
		if v, ok := decode.U16LE(buf, pos); ok {
			samples[i] = v
			continue
		}
		if pos < len(buf) {
			samples[i] = uint16(buf[pos])
		}
	}
	return samples
}

// normalize scales samples to 8-bit indices by the per-image minimum and
// maximum. A flat image has its maximum nudged to min+1 so the divisor
// never reaches zero.
func normalize(samples []uint16) []byte {
	if len(samples) == 0 {
		return nil
	}

	mn, mx := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < mn {
			mn = s
		}
		if s > mx {
			mx = s
		}
	}
	if mx == mn {
		mx = mn + 1
	}

	spread := float64(mx - mn)
	indices := make([]byte, len(samples))
	for i, s := range samples {
		indices[i] = byte(math.Round(float64(s-mn) * 255 / spread))
	}
	return indices
}

// reverse applies the 180° orientation correction: reversing the flattened
// sample order reverses both axes at once.
func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
