package model

import "time"

// FileReport holds the per-file findings of an inspection: dimension
// signature hits, consistency checks, and thermal-scale candidates.
type FileReport struct {
	// Name is the file's base name.
	Name string `json:"name"`

	// Size is the file's length in bytes.
	Size int `json:"size"`

	// Digest is the BLAKE2b-256 digest of the file contents, hex encoded.
	Digest string `json:"digest"`

	// HeaderDump is a hex/ASCII rendering of the first bytes of the file.
	HeaderDump string `json:"headerDump,omitempty"`

	// Dimensions are all located (width, height) signature occurrences.
	Dimensions []DimensionCandidate `json:"dimensions,omitempty"`

	// HighConfidence is the subset of Dimensions passing the marker-constant
	// heuristic. The heuristic is corpus-derived, not a format guarantee.
	HighConfidence []DimensionCandidate `json:"highConfidence,omitempty"`

	// Consistency are the header-size boundary checks per known resolution.
	Consistency []ConsistencyFinding `json:"consistency,omitempty"`

	// ScaleSingles are single-value thermal-scale candidates per region.
	ScaleSingles []ScaleCandidate `json:"scaleSingles,omitempty"`

	// ScalePairs are (min, max) thermal-scale pair candidates per region.
	ScalePairs []ScalePair `json:"scalePairs,omitempty"`
}

// InspectionReport is the aggregate result of running analysis steps over a
// corpus of containers that share one nominal format version.
type InspectionReport struct {
	// CorpusLabel names the corpus, typically the input path.
	CorpusLabel string `json:"corpusLabel"`

	// Profile is the name of the format profile the analysis ran under.
	Profile string `json:"profile"`

	// GeneratedAt is the report creation time.
	GeneratedAt time.Time `json:"generatedAt"`

	// Files holds per-file findings in corpus order.
	Files []FileReport `json:"files"`

	// Stability maps range labels to their stability runs. Ranges that fall
	// entirely outside the corpus map to an empty slice.
	Stability map[string][]StabilityRun `json:"stability,omitempty"`

	// RankedPairs are corpus-ranked thermal-scale pair candidates, best first.
	RankedPairs []RankedScalePair `json:"rankedPairs,omitempty"`

	// PerformedSteps lists the analysis steps that ran, in order.
	PerformedSteps []string `json:"performedSteps,omitempty"`

	// ErrorMessage records a step failure when the pipeline was configured
	// to continue past errors.
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// NewInspectionReport creates an empty report for the given corpus label and
// profile name, stamped with the current time.
func NewInspectionReport(corpusLabel, profileName string) *InspectionReport {
	return &InspectionReport{
		CorpusLabel: corpusLabel,
		Profile:     profileName,
		GeneratedAt: time.Now(),
		Files:       make([]FileReport, 0),
		Stability:   make(map[string][]StabilityRun),
	}
}

// TotalDimensionHits returns the number of dimension candidates across all
// files in the report.
func (r *InspectionReport) TotalDimensionHits() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Dimensions)
	}
	return total
}

// TotalScalePairs returns the number of pair candidates across all files.
func (r *InspectionReport) TotalScalePairs() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.ScalePairs)
	}
	return total
}
