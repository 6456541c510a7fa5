package model

// Encoding identifies the byte encoding under which a value was located.
type Encoding string

// Dimension pair encodings searched by the signature scanner.
const (
	// EncodingU32LE is an unsigned 32-bit little-endian encoding.
	EncodingU32LE Encoding = "u32le"
	// EncodingU32BE is an unsigned 32-bit big-endian encoding.
	EncodingU32BE Encoding = "u32be"
	// EncodingU16LE is an unsigned 16-bit little-endian encoding.
	EncodingU16LE Encoding = "u16le"
	// EncodingU16BE is an unsigned 16-bit big-endian encoding.
	EncodingU16BE Encoding = "u16be"
)

// DimensionCandidate is a located occurrence of a known (width, height) pair
// under one numeric encoding. The surrounding context bytes are captured for
// manual inspection; no structural meaning is attached to them.
type DimensionCandidate struct {
	// Offset is the byte offset where the serialized pair begins.
	Offset int `json:"offset"`

	// Encoding is the numeric encoding the pair was serialized with.
	Encoding Encoding `json:"encoding"`

	// Width is the pixel width of the matched resolution.
	Width int `json:"width"`

	// Height is the pixel height of the matched resolution.
	Height int `json:"height"`

	// Context holds bytes surrounding the match, a fixed radius on each side
	// clamped to the buffer bounds.
	Context []byte `json:"context,omitempty"`
}

// ConsistencyFinding records whether a hypothesized header size plus the raw
// pixel byte count for one resolution lands on a plausible boundary inside a
// file, together with a peek at the bytes that follow that boundary.
type ConsistencyFinding struct {
	// Width and Height are the resolution under test.
	Width  int `json:"width"`
	Height int `json:"height"`

	// HeaderSize is the hypothesized fixed per-image header size in bytes.
	HeaderSize int `json:"headerSize"`

	// ExpectedEnd is HeaderSize + Width*Height*2, the offset where the raw
	// pixel block would end.
	ExpectedEnd int `json:"expectedEnd"`

	// InBounds is true when ExpectedEnd lies within the file.
	InBounds bool `json:"inBounds"`

	// Trailing holds up to 32 bytes following ExpectedEnd.
	Trailing []byte `json:"trailing,omitempty"`

	// TrailingUTF16 is the UTF-16-LE rendering of Trailing, useful for
	// spotting embedded instrument strings.
	TrailingUTF16 string `json:"trailingUTF16,omitempty"`
}
