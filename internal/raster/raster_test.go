package raster

import (
	"bytes"
	"encoding/binary"
	"image"
	"testing"

	"golang.org/x/image/bmp"
)

// TestThermalRampEndpoints verifies the ramp hits the end stops exactly.
func TestThermalRampEndpoints(t *testing.T) {
	t.Parallel()

	ramp := ThermalRamp()

	r, g, b := MapColor(ramp, 0)
	first := ramp[0]
	if r != first.R || g != first.G || b != first.B {
		t.Errorf("index 0 = (%d,%d,%d), want first stop (%d,%d,%d)", r, g, b, first.R, first.G, first.B)
	}

	r, g, b = MapColor(ramp, 255)
	last := ramp[len(ramp)-1]
	if r != last.R || g != last.G || b != last.B {
		t.Errorf("index 255 = (%d,%d,%d), want last stop (%d,%d,%d)", r, g, b, last.R, last.G, last.B)
	}
}

// TestThermalRampContinuity verifies adjacent indices differ by a bounded
// amount per channel, so there are no discontinuities at stop boundaries.
func TestThermalRampContinuity(t *testing.T) {
	t.Parallel()

	ramp := ThermalRamp()

	// Max channel change across one quarter of the ramp is 255, so one index
	// step may move a channel by at most ceil(255/(0.25*255)) + 1 = 5.
	const maxStep = 5

	pr, pg, pb := MapColor(ramp, 0)
	for i := 1; i <= 255; i++ {
		r, g, b := MapColor(ramp, uint8(i))
		if absDiff(r, pr) > maxStep || absDiff(g, pg) > maxStep || absDiff(b, pb) > maxStep {
			t.Fatalf("discontinuity at index %d: (%d,%d,%d) -> (%d,%d,%d)", i, pr, pg, pb, r, g, b)
		}
		pr, pg, pb = r, g, b
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// TestEncodeBMPGrayscaleRoundTrip encodes an 8-bit raster and decodes it
// back with golang.org/x/image/bmp, verifying geometry and pixel identity.
func TestEncodeBMPGrayscaleRoundTrip(t *testing.T) {
	t.Parallel()

	img := NewGrayscale(5, 3) // width 5 forces row padding (5 -> 8)
	for i := range img.Pix {
		img.Pix[i] = byte(i * 16)
	}

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP() error = %v", err)
	}

	decoded, err := bmp.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("bmp.Decode() error = %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 5 || bounds.Dy() != 3 {
		t.Fatalf("decoded geometry = %dx%d, want 5x3", bounds.Dx(), bounds.Dy())
	}

	paletted, ok := decoded.(*image.Paletted)
	if !ok {
		t.Fatalf("decoded type = %T, want *image.Paletted", decoded)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			want := img.Pix[y*5+x]
			if got := paletted.ColorIndexAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

// TestEncodeBMPHeaderFields verifies the written header matches the encoder
// inputs field by field.
func TestEncodeBMPHeaderFields(t *testing.T) {
	t.Parallel()

	img := NewGrayscale(6, 2)
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP() error = %v", err)
	}
	raw := buf.Bytes()

	if raw[0] != 'B' || raw[1] != 'M' {
		t.Errorf("signature = %q, want BM", raw[0:2])
	}
	wantOffset := uint32(14 + 40 + 256*4)
	if got := binary.LittleEndian.Uint32(raw[10:]); got != wantOffset {
		t.Errorf("data offset = %d, want %d", got, wantOffset)
	}
	if got := binary.LittleEndian.Uint32(raw[2:]); got != uint32(len(raw)) {
		t.Errorf("file size field = %d, want %d", got, len(raw))
	}
	if got := binary.LittleEndian.Uint32(raw[14:]); got != 40 {
		t.Errorf("info header size = %d, want 40", got)
	}
	if got := int32(binary.LittleEndian.Uint32(raw[18:])); got != 6 {
		t.Errorf("width = %d, want 6", got)
	}
	if got := int32(binary.LittleEndian.Uint32(raw[22:])); got != 2 {
		t.Errorf("height = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(raw[26:]); got != 1 {
		t.Errorf("planes = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint16(raw[28:]); got != 8 {
		t.Errorf("bit depth = %d, want 8", got)
	}
	if got := binary.LittleEndian.Uint32(raw[30:]); got != 0 {
		t.Errorf("compression = %d, want 0", got)
	}
	if got := binary.LittleEndian.Uint32(raw[46:]); got != 256 {
		t.Errorf("palette count = %d, want 256", got)
	}
}

// TestEncodeBMPGrayscalePalette verifies the 8-bit color table is exactly
// the identity grayscale ramp: entry i = (i, i, i, 0).
func TestEncodeBMPGrayscalePalette(t *testing.T) {
	t.Parallel()

	img := NewGrayscale(2, 2)
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP() error = %v", err)
	}
	raw := buf.Bytes()

	palette := raw[14+40 : 14+40+256*4]
	for i := 0; i < 256; i++ {
		entry := palette[i*4 : i*4+4]
		if entry[0] != byte(i) || entry[1] != byte(i) || entry[2] != byte(i) || entry[3] != 0 {
			t.Fatalf("palette entry %d = %v, want (%d,%d,%d,0)", i, entry, i, i, i)
		}
	}
}

// TestEncodeBMPColorRoundTrip encodes a 24-bit raster and verifies decoded
// pixel colors, covering the RGB-to-BGR wire conversion and bottom-up rows.
func TestEncodeBMPColorRoundTrip(t *testing.T) {
	t.Parallel()

	img := NewColor(2, 2)
	// Top-left red, top-right green, bottom-left blue, bottom-right white.
	copy(img.Pix, []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP() error = %v", err)
	}

	decoded, err := bmp.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("bmp.Decode() error = %v", err)
	}

	checks := []struct {
		x, y    int
		r, g, b uint32
	}{
		{0, 0, 255, 0, 0},
		{1, 0, 0, 255, 0},
		{0, 1, 0, 0, 255},
		{1, 1, 255, 255, 255},
	}
	for _, c := range checks {
		r, g, b, _ := decoded.At(c.x, c.y).RGBA()
		if r>>8 != c.r || g>>8 != c.g || b>>8 != c.b {
			t.Errorf("pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
				c.x, c.y, r>>8, g>>8, b>>8, c.r, c.g, c.b)
		}
	}
}

// TestEncodeBMPRejectsBadInput verifies geometry and buffer validation.
func TestEncodeBMPRejectsBadInput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	if err := EncodeBMP(&buf, &Image{Width: 0, Height: 2, BitDepth: 8}); err == nil {
		t.Error("expected error for zero width")
	}
	if err := EncodeBMP(&buf, &Image{Width: 2, Height: 2, BitDepth: 16, Pix: make([]byte, 8)}); err == nil {
		t.Error("expected error for unsupported bit depth")
	}
	if err := EncodeBMP(&buf, &Image{Width: 2, Height: 2, BitDepth: 8, Pix: make([]byte, 3)}); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}
