package model

// Interpretation identifies one numeric reading of raw bytes during a
// thermal-scale scan.
type Interpretation string

// Numeric interpretations attempted by the scale scanner. The integer
// interpretations reflect the encodings a thermal instrument plausibly uses
// for temperatures: whole degrees, tenths of a degree, and Kelvin offsets.
const (
	// InterpF32LE reads a 32-bit little-endian IEEE 754 float.
	InterpF32LE Interpretation = "f32le"
	// InterpF32BE reads a 32-bit big-endian IEEE 754 float.
	InterpF32BE Interpretation = "f32be"
	// InterpF64LE reads a 64-bit little-endian IEEE 754 float.
	InterpF64LE Interpretation = "f64le"
	// InterpF64BE reads a 64-bit big-endian IEEE 754 float.
	InterpF64BE Interpretation = "f64be"
	// InterpI16Degrees reads a signed 16-bit little-endian value taken
	// directly as degrees Celsius.
	InterpI16Degrees Interpretation = "i16degc"
	// InterpI16Tenths reads a signed 16-bit little-endian value scaled by 0.1.
	InterpI16Tenths Interpretation = "i16x0.1"
	// InterpU16Tenths reads an unsigned 16-bit little-endian value scaled by 0.1.
	InterpU16Tenths Interpretation = "u16x0.1"
	// InterpU16Kelvin reads an unsigned 16-bit little-endian value minus 273,
	// converting whole Kelvin to Celsius.
	InterpU16Kelvin Interpretation = "u16k"
)

// ScaleCandidate is a single decoded value inside the configured plausibility
// window, found at one offset under one interpretation.
type ScaleCandidate struct {
	// Region is the label of the scanned range the candidate was found in.
	Region string `json:"region"`

	// Offset is the absolute byte offset of the candidate.
	Offset int `json:"offset"`

	// Interpretation is the numeric reading that produced Value.
	Interpretation Interpretation `json:"interpretation"`

	// Value is the decoded physical value.
	Value float64 `json:"value"`
}

// ScalePair is a candidate (min, max) thermal scale: two adjacent values of
// the same encoding with Low < High, both inside the plausibility window,
// separated by at least the configured minimum spread.
type ScalePair struct {
	// Region is the label of the scanned range the pair was found in.
	Region string `json:"region"`

	// Offset is the absolute byte offset of the first (low) value.
	Offset int `json:"offset"`

	// Interpretation is the numeric reading shared by both values.
	Interpretation Interpretation `json:"interpretation"`

	// Low is the decoded scale minimum. Always strictly less than High.
	Low float64 `json:"low"`

	// High is the decoded scale maximum.
	High float64 `json:"high"`
}

// RankedScalePair aggregates one (region, offset, interpretation) pair
// candidate across a whole corpus and scores it against a reference
// operating range.
type RankedScalePair struct {
	// Region, Offset and Interpretation identify the candidate field.
	Region         string         `json:"region"`
	Offset         int            `json:"offset"`
	Interpretation Interpretation `json:"interpretation"`

	// GlobalLow is the minimum Low observed across all corpus members.
	GlobalLow float64 `json:"globalLow"`

	// GlobalHigh is the maximum High observed across all corpus members.
	GlobalHigh float64 `json:"globalHigh"`

	// FileCount is the number of corpus members the candidate appeared in.
	FileCount int `json:"fileCount"`

	// Distance is |GlobalLow - target.Low| + |GlobalHigh - target.High|,
	// the ranking key. Smaller is better.
	Distance float64 `json:"distance"`
}
