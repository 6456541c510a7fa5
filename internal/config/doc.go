// Package config provides configuration structures and utilities for bmtscan.
// It defines the main configuration options for corpus inspection, container
// extraction, and report generation preferences.
package config
