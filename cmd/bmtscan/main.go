// Package main provides the entry point for the bmtscan CLI.
//
// bmtscan is a reverse-engineering and extraction toolkit for BMT
// thermal-camera containers. It locates image geometry, thermal-scale
// values, and stable header structure inside undocumented capture files,
// and extracts the embedded rasters as viewable images.
//
// Usage:
//
//	bmtscan inspect captures/
//	bmtscan extract captures/ -o extracted/
//
// See --help for all available options.
package main

// main is the entry point for bmtscan.
func main() {
	Execute()
}
