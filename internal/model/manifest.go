package model

import "time"

// SidecarEntry is one row of the human-curated capture metadata sidecar:
// focus distance and the true scale bounds recorded by the operator.
type SidecarEntry struct {
	// Label is the capture's base name, used to match container files.
	Label string `json:"label"`

	// Focus is the recorded focus distance.
	Focus float64 `json:"focus"`

	// Min is the operator-recorded scale minimum in degrees Celsius.
	Min float64 `json:"min"`

	// Max is the operator-recorded scale maximum in degrees Celsius.
	Max float64 `json:"max"`
}

// ExtractionRecord describes the outcome of extracting one container file:
// which rasters were written and which image specs failed.
type ExtractionRecord struct {
	// Base is the container's base name without extension.
	Base string `json:"base"`

	// Source is the path of the container file.
	Source string `json:"source"`

	// Digest is the BLAKE2b-256 digest of the container contents, hex encoded.
	Digest string `json:"digest"`

	// Outputs are the paths of raster files written for this container.
	Outputs []string `json:"outputs"`

	// Errors are per-spec failure messages. A non-empty list does not imply
	// the whole extraction failed; remaining specs still produce output.
	Errors []string `json:"errors,omitempty"`

	// Sidecar is the matched sidecar row, if one was loaded and matched.
	Sidecar *SidecarEntry `json:"sidecar,omitempty"`
}

// Manifest lists every container processed by one extraction invocation.
type Manifest struct {
	// GeneratedAt is the manifest creation time.
	GeneratedAt time.Time `json:"generatedAt"`

	// Profile is the name of the format profile extraction ran under.
	Profile string `json:"profile"`

	// Records holds one entry per processed container, in input order.
	Records []ExtractionRecord `json:"records"`
}

// NewManifest creates an empty manifest for the given profile name.
func NewManifest(profileName string) *Manifest {
	return &Manifest{
		GeneratedAt: time.Now(),
		Profile:     profileName,
		Records:     make([]ExtractionRecord, 0),
	}
}
