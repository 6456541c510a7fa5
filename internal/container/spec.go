package container

import (
	"fmt"

	"github.com/nao1215/bmtscan/internal/profile"
)

// RenderKind selects how a raw pixel block is rendered.
type RenderKind string

const (
	// RenderThermal maps normalized samples through the thermal color ramp
	// into a 24-bit raster.
	RenderThermal RenderKind = "thermal"
	// RenderVisual uses normalized samples directly as 8-bit grayscale.
	RenderVisual RenderKind = "visual"
)

// ImageSpec describes one image to extract from a container. It is a sealed
// tagged variant: exactly RawPixelBlock and EmbeddedContainer implement it,
// so each extraction path's required fields are total rather than optional
// fields meaning "N/A" in one shape and "required" in the other.
type ImageSpec interface {
	// Label names the image and becomes part of the output file name.
	Label() string

	// sealed prevents implementations outside this package.
	sealed()
}

// RawPixelBlock locates an uncompressed block of 16-bit little-endian
// samples, one per pixel, row-major.
type RawPixelBlock struct {
	// SpecLabel names the image.
	SpecLabel string

	// Width and Height are the pixel geometry. Always positive.
	Width  int
	Height int

	// HeaderOffset is the offset of the per-image header.
	HeaderOffset int

	// HeaderSize is the fixed header size preceding the pixel data.
	HeaderSize int

	// DataOffset overrides the pixel data offset when non-negative; when
	// negative the data starts at HeaderOffset + HeaderSize.
	DataOffset int

	// Render selects thermal color mapping or grayscale output.
	Render RenderKind
}

// Label implements ImageSpec.
func (s RawPixelBlock) Label() string { return s.SpecLabel }

func (RawPixelBlock) sealed() {}

// pixelDataOffset resolves the start of the pixel block; an explicit
// override takes precedence over header offset plus header size.
func (s RawPixelBlock) pixelDataOffset() int {
	if s.DataOffset >= 0 {
		return s.DataOffset
	}
	return s.HeaderOffset + s.HeaderSize
}

// EmbeddedContainer locates a complete raster file byte-copied verbatim
// inside the outer container. Its size is self-described by its own header
// and re-validated at extraction time, not configured.
type EmbeddedContainer struct {
	// SpecLabel names the image.
	SpecLabel string

	// Start is the offset of the sub-container within the outer file.
	Start int
}

// Label implements ImageSpec.
func (s EmbeddedContainer) Label() string { return s.SpecLabel }

func (EmbeddedContainer) sealed() {}

// CompileSpecs converts a profile's flat image table into tagged variants,
// validating that each entry carries the fields its kind requires.
func CompileSpecs(p profile.Profile) ([]ImageSpec, error) {
	specs := make([]ImageSpec, 0, len(p.Images))

	for _, entry := range p.Images {
		if entry.Label == "" {
			return nil, fmt.Errorf("image entry without label in profile %s", p.Name)
		}

		switch entry.Kind {
		case profile.KindRaw:
			if entry.Width <= 0 || entry.Height <= 0 {
				return nil, fmt.Errorf("raw image %s: invalid geometry %dx%d", entry.Label, entry.Width, entry.Height)
			}
			var render RenderKind
			switch entry.Render {
			case profile.RenderThermal:
				render = RenderThermal
			case profile.RenderVisual:
				render = RenderVisual
			default:
				return nil, fmt.Errorf("raw image %s: unknown render kind %q", entry.Label, entry.Render)
			}
			specs = append(specs, RawPixelBlock{
				SpecLabel:    entry.Label,
				Width:        entry.Width,
				Height:       entry.Height,
				HeaderOffset: entry.HeaderOffset,
				HeaderSize:   p.PixelHeaderSize,
				DataOffset:   entry.DataOffset,
				Render:       render,
			})
		case profile.KindEmbedded:
			if entry.Start < 0 {
				return nil, fmt.Errorf("embedded image %s: negative start %d", entry.Label, entry.Start)
			}
			specs = append(specs, EmbeddedContainer{
				SpecLabel: entry.Label,
				Start:     entry.Start,
			})
		default:
			return nil, fmt.Errorf("image %s: unknown kind %q", entry.Label, entry.Kind)
		}
	}

	return specs, nil
}
