// Package model defines the value types shared across the bmtscan analysis
// and extraction components: byte ranges, stability runs, dimension and
// thermal-scale candidates, inspection reports, and extraction manifests.
// All types are plain immutable data produced by pure functions over input
// byte buffers; none of them owns resources or outlives the call that
// created it.
package model
