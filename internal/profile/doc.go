// Package profile defines format profiles for the versioned BMT container.
//
// No specification for the BMT format exists; every numeric constant here —
// header sizes, image offsets, marker constants, plausibility windows — is an
// adopted hypothesis derived from byte-level comparison of sample captures,
// not a documented property of the format. Profiles make those hypotheses
// explicit configuration values, enumerated per supported format revision and
// selected by the caller, instead of constants baked into the analysis code.
// Users may add or override profiles through a .bmtscan.yaml file.
package profile
