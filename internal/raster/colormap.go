package raster

// Stop is one (position, color) anchor in the piecewise-linear thermal ramp.
// T runs from 0 (coldest) to 1 (hottest).
type Stop struct {
	T       float64
	R, G, B uint8
}

// ThermalRamp returns the default five-stop cold-to-hot color ramp:
// dark blue, blue, yellow, red, near-white at equidistant positions.
func ThermalRamp() []Stop {
	return []Stop{
		{T: 0.00, R: 0x00, G: 0x00, B: 0x40},
		{T: 0.25, R: 0x00, G: 0x00, B: 0xFF},
		{T: 0.50, R: 0xFF, G: 0xFF, B: 0x00},
		{T: 0.75, R: 0xFF, G: 0x00, B: 0x00},
		{T: 1.00, R: 0xFF, G: 0xF0, B: 0xF0},
	}
}

// MapColor maps an 8-bit intensity index through the ramp by linear
// interpolation between the two bracketing stops, each channel independently.
// Index 0 yields the first stop exactly and index 255 the last.
func MapColor(ramp []Stop, index uint8) (r, g, b uint8) {
	t := float64(index) / 255

	if t <= ramp[0].T {
		return ramp[0].R, ramp[0].G, ramp[0].B
	}
	last := ramp[len(ramp)-1]
	if t >= last.T {
		return last.R, last.G, last.B
	}

	for i := 1; i < len(ramp); i++ {
		if t > ramp[i].T {
			continue
		}
		s0, s1 := ramp[i-1], ramp[i]
		frac := (t - s0.T) / (s1.T - s0.T)
		return lerp(s0.R, s1.R, frac), lerp(s0.G, s1.G, frac), lerp(s0.B, s1.B, frac)
	}

	return last.R, last.G, last.B
}

// lerp interpolates one channel: c0 + (c1-c0)*frac, rounded to nearest.
func lerp(c0, c1 uint8, frac float64) uint8 {
	return uint8(float64(c0) + (float64(c1)-float64(c0))*frac + 0.5)
}
