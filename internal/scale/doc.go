// Package scale searches container byte ranges for plausible thermal-scale
// values. Every offset is evaluated under multiple numeric interpretations;
// each interpretation is an explicit decode-then-filter step returning an
// optional value, so a read past the buffer end is a boundary check rather
// than a fault. Values outside the profile's plausibility window are silently
// excluded — implausibility is expected noise, not an error.
package scale
