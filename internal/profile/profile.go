package profile

import (
	"github.com/nao1215/bmtscan/internal/model"
)

// Image spec kinds supported by a profile.
const (
	// KindRaw marks an image stored as an uncompressed 16-bit raw pixel block.
	KindRaw = "raw"
	// KindEmbedded marks a complete raster file byte-copied verbatim inside
	// the outer container.
	KindEmbedded = "embedded"
)

// Render kinds for raw pixel blocks.
const (
	// RenderThermal maps normalized samples through the thermal color ramp.
	RenderThermal = "thermal"
	// RenderVisual uses normalized samples directly as grayscale intensity.
	RenderVisual = "visual"
)

// Resolution is a known (width, height) pair the instrument produces.
type Resolution struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Window is an inclusive numeric range used to accept or reject a decoded
// candidate value as physically meaningful.
type Window struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Contains reports whether v lies inside the window.
func (w Window) Contains(v float64) bool {
	return v >= w.Low && v <= w.High
}

// ImageEntry is one image spec in a profile's layout table. It is the flat,
// YAML-friendly form; the container package compiles entries into tagged
// variants so each extraction path's required fields are total.
type ImageEntry struct {
	// Label names the image and becomes part of the output file name.
	Label string `yaml:"label" json:"label"`

	// Kind is KindRaw or KindEmbedded.
	Kind string `yaml:"kind" json:"kind"`

	// Render is RenderThermal or RenderVisual. Raw kind only.
	Render string `yaml:"render,omitempty" json:"render,omitempty"`

	// Width and Height are the pixel geometry. Raw kind only.
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`

	// HeaderOffset is the offset of the per-image header. Raw kind only.
	HeaderOffset int `yaml:"headerOffset,omitempty" json:"headerOffset,omitempty"`

	// DataOffset overrides the pixel data offset when non-negative. When
	// negative the data offset is HeaderOffset plus the profile's
	// PixelHeaderSize. Raw kind only.
	DataOffset int `yaml:"dataOffset" json:"dataOffset"`

	// Start is the offset of the embedded sub-container. Embedded kind only.
	Start int `yaml:"start,omitempty" json:"start,omitempty"`
}

// Profile is the complete set of layout hypotheses and scan parameters for
// one BMT format revision.
type Profile struct {
	// Name identifies the profile in CLI flags and reports.
	Name string `yaml:"name" json:"name"`

	// Description is a one-line human summary of the format revision.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// PixelHeaderSize is the fixed per-image header size in bytes preceding
	// each raw pixel block. Observed as 54 in early captures and 36 in later
	// firmware.
	PixelHeaderSize int `yaml:"pixelHeaderSize" json:"pixelHeaderSize"`

	// Images is the layout table extraction runs against.
	Images []ImageEntry `yaml:"images" json:"images"`

	// StabilityRanges are the byte ranges the stability analyzer classifies.
	StabilityRanges []model.NamedRange `yaml:"stabilityRanges,omitempty" json:"stabilityRanges,omitempty"`

	// ScaleRegions are the byte ranges the scale scanner sweeps.
	ScaleRegions []model.NamedRange `yaml:"scaleRegions,omitempty" json:"scaleRegions,omitempty"`

	// KnownResolutions are the (width, height) pairs the signature scanner
	// searches for.
	KnownResolutions []Resolution `yaml:"knownResolutions,omitempty" json:"knownResolutions,omitempty"`

	// ContextRadius is the number of bytes captured on each side of a
	// signature match.
	ContextRadius int `yaml:"contextRadius" json:"contextRadius"`

	// MarkerConstants are the two u32-LE values expected immediately before a
	// high-confidence dimension hit. This is a heuristic tuned on a small
	// sample corpus, not a structural guarantee of the format.
	MarkerConstants []uint32 `yaml:"markerConstants,omitempty" json:"markerConstants,omitempty"`

	// PlausibleWindow accepts single-value and pair scale candidates.
	PlausibleWindow Window `yaml:"plausibleWindow" json:"plausibleWindow"`

	// PairSpread is the minimum High-Low spread for a pair candidate,
	// rejecting near-equal byte coincidences.
	PairSpread float64 `yaml:"pairSpread" json:"pairSpread"`

	// RankWindow is the tighter window applied during cross-corpus ranking.
	RankWindow Window `yaml:"rankWindow" json:"rankWindow"`

	// RankSpread is the larger minimum spread applied during ranking.
	RankSpread float64 `yaml:"rankSpread" json:"rankSpread"`

	// TargetRange is the instrument's expected operating range; ranked
	// candidates are ordered by distance from it. Empirically tuned.
	TargetRange Window `yaml:"targetRange" json:"targetRange"`

	// ExcludedIntegers are values rejected under integer interpretations
	// because they are known dimensions or counts, not physical quantities.
	ExcludedIntegers []int `yaml:"excludedIntegers,omitempty" json:"excludedIntegers,omitempty"`

	// EmbeddedMagic is the 2-byte magic expected at the start of an embedded
	// sub-container.
	EmbeddedMagic string `yaml:"embeddedMagic,omitempty" json:"embeddedMagic,omitempty"`

	// SizeFieldOffset is the offset of the declared u32-LE total size field
	// within an embedded sub-container.
	SizeFieldOffset int `yaml:"sizeFieldOffset,omitempty" json:"sizeFieldOffset,omitempty"`
}

// ExcludesInteger reports whether v is on the profile's integer block-list.
func (p Profile) ExcludesInteger(v int) bool {
	for _, e := range p.ExcludedIntegers {
		if v == e {
			return true
		}
	}
	return false
}

// defaultExcludedIntegers are small structural values (dimensions, header
// sizes, sample counts) that show up constantly in the container and would
// otherwise flood integer scale interpretations with false positives.
func defaultExcludedIntegers() []int {
	return []int{0, 1, 8, 10, 12, 16, 28, 36, 40, 54, 120, 160, 240, 320, 480, 640}
}

// defaultResolutions are the capture resolutions observed across sample
// corpora: the thermal sensor, the visual camera, and the thumbnail.
func defaultResolutions() []Resolution {
	return []Resolution{
		{Width: 160, Height: 120},
		{Width: 320, Height: 240},
		{Width: 640, Height: 480},
	}
}

// Classic returns the profile for the early format revision: a 54-byte
// per-image header, two raw pixel blocks and a trailing thumbnail, with
// scale scan regions in the gaps between image payloads.
func Classic() Profile {
	return Profile{
		Name:            "classic",
		Description:     "early firmware: 54-byte image headers, raw 16-bit pixel blocks",
		PixelHeaderSize: 54,
		Images: []ImageEntry{
			{Label: "thermal_320x240", Kind: KindRaw, Render: RenderThermal, Width: 320, Height: 240, HeaderOffset: 0, DataOffset: -1},
			{Label: "visual_640x480", Kind: KindRaw, Render: RenderVisual, Width: 640, Height: 480, HeaderOffset: 153740, DataOffset: -1},
			{Label: "thermal_160x120", Kind: KindRaw, Render: RenderThermal, Width: 160, Height: 120, HeaderOffset: 768293, DataOffset: 768297},
		},
		StabilityRanges: []model.NamedRange{
			{Label: "thermal_header", Start: 0, End: 54},
			{Label: "between_thermal_and_visual", Start: 153654, End: 153722},
			{Label: "visual_header", Start: 153722, End: 153776},
			{Label: "after_visual_image", Start: 768176, End: model.OpenEnd},
		},
		ScaleRegions: []model.NamedRange{
			{Label: "thermal_trailer_a", Start: 0x2586A, End: 0x2586F},
			{Label: "visual_trailer_a", Start: 0xBB8CF, End: 0xBB8D7},
			{Label: "visual_trailer_b", Start: 0xBB8E7, End: 0xBB8F7},
			{Label: "visual_trailer_c", Start: 0xBB912, End: 0xBB918},
			{Label: "visual_trailer_d", Start: 0xBB929, End: 0xBB938},
		},
		KnownResolutions: defaultResolutions(),
		ContextRadius:    8,
		MarkerConstants:  []uint32{36, 40},
		PlausibleWindow:  Window{Low: -50, High: 120},
		PairSpread:       0.5,
		RankWindow:       Window{Low: -10, High: 60},
		RankSpread:       10,
		TargetRange:      Window{Low: -6, High: 50},
		ExcludedIntegers: defaultExcludedIntegers(),
		EmbeddedMagic:    "BM",
		SizeFieldOffset:  2,
	}
}

// Embedded returns the profile for the later format revision, where the
// container carries complete raster files verbatim: the visual photo at the
// file start and the rendered thermal image at a large fixed offset.
func Embedded() Profile {
	return Profile{
		Name:            "embedded",
		Description:     "later firmware: verbatim embedded raster files, 36-byte image headers",
		PixelHeaderSize: 36,
		Images: []ImageEntry{
			{Label: "visual_photo", Kind: KindEmbedded, Start: 0, DataOffset: -1},
			{Label: "thermal_image", Kind: KindEmbedded, Start: 0xE1200, DataOffset: -1},
		},
		KnownResolutions: defaultResolutions(),
		ContextRadius:    8,
		MarkerConstants:  []uint32{36, 40},
		PlausibleWindow:  Window{Low: -50, High: 120},
		PairSpread:       0.5,
		RankWindow:       Window{Low: -10, High: 60},
		RankSpread:       10,
		TargetRange:      Window{Low: -6, High: 50},
		ExcludedIntegers: defaultExcludedIntegers(),
		EmbeddedMagic:    "BM",
		SizeFieldOffset:  2,
	}
}

// Builtin returns the built-in profile with the given name.
// The second return is false when no built-in profile matches.
func Builtin(name string) (Profile, bool) {
	switch name {
	case "classic":
		return Classic(), true
	case "embedded":
		return Embedded(), true
	default:
		return Profile{}, false
	}
}

// BuiltinNames returns the names of all built-in profiles.
func BuiltinNames() []string {
	return []string{"classic", "embedded"}
}
