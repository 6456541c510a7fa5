package decode

import (
	"encoding/binary"
	"math"
)

// U16LE reads an unsigned 16-bit little-endian value at off.
// The second return is false when fewer than 2 bytes remain.
func U16LE(b []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b[off:]), true
}

// U16BE reads an unsigned 16-bit big-endian value at off.
func U16BE(b []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(b) {
		return 0, false
	}
	return binary.BigEndian.Uint16(b[off:]), true
}

// U32LE reads an unsigned 32-bit little-endian value at off.
func U32LE(b []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(b) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[off:]), true
}

// U32BE reads an unsigned 32-bit big-endian value at off.
func U32BE(b []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(b) {
		return 0, false
	}
	return binary.BigEndian.Uint32(b[off:]), true
}

// I16LE reads a signed 16-bit little-endian value at off.
func I16LE(b []byte, off int) (int16, bool) {
	v, ok := U16LE(b, off)
	return int16(v), ok
}

// I16BE reads a signed 16-bit big-endian value at off.
func I16BE(b []byte, off int) (int16, bool) {
	v, ok := U16BE(b, off)
	return int16(v), ok
}

// I32LE reads a signed 32-bit little-endian value at off.
func I32LE(b []byte, off int) (int32, bool) {
	v, ok := U32LE(b, off)
	return int32(v), ok
}

// F32LE reads a 32-bit IEEE 754 little-endian float at off.
// The returned value may be NaN or infinite; callers filter for plausibility.
func F32LE(b []byte, off int) (float32, bool) {
	v, ok := U32LE(b, off)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(v), true
}

// F32BE reads a 32-bit IEEE 754 big-endian float at off.
func F32BE(b []byte, off int) (float32, bool) {
	v, ok := U32BE(b, off)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(v), true
}

// F64LE reads a 64-bit IEEE 754 little-endian float at off.
func F64LE(b []byte, off int) (float64, bool) {
	if off < 0 || off+8 > len(b) {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:])), true
}

// F64BE reads a 64-bit IEEE 754 big-endian float at off.
func F64BE(b []byte, off int) (float64, bool) {
	if off < 0 || off+8 > len(b) {
		return 0, false
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b[off:])), true
}
