package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "bmtscan"

	// DefaultProfileName is the format profile used when none is specified.
	// The classic profile matches the earliest and most common captures.
	DefaultProfileName = "classic"

	// DefaultConcurrency is the number of containers extracted in parallel.
	// Extraction is I/O-light and CPU-cheap; a small limit keeps memory
	// bounded when containers are large.
	DefaultConcurrency = 4

	// DefaultOutputDirName is the directory created next to the input for
	// extracted rasters when no output directory is given.
	DefaultOutputDirName = "extracted"

	// ManifestFileName is the extraction manifest written into the output
	// directory.
	ManifestFileName = "manifest.json"
)

// Config holds all configuration options for bmtscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., InspectConfig, ExtractConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Profile is the name of the format profile to run under. Built-in
	// profiles are "classic" and "embedded"; a config file can define more.
	Profile string

	// ConfigFilePath is the path to the profile configuration file.
	// If empty, the tool searches for .bmtscan.yaml in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Inputs are the container files or directories to process.
	Inputs []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// OutputDir is the directory extracted rasters are written into.
	// When empty, a directory named DefaultOutputDirName is created next to
	// the first input.
	OutputDir string

	// SidecarPath is the path of the tab-delimited capture metadata file.
	// When empty, no sidecar is loaded.
	SidecarPath string

	// Concurrency is the number of containers extracted in parallel.
	Concurrency int

	// DBDir is the directory path for storing the SQLite catalog.
	// When empty, the XDG data directory is used.
	// Defaults to ~/.local/share/bmtscan on Linux.
	DBDir string

	// SaveToDB indicates whether to save results to the catalog.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Profile:     DefaultProfileName,
		Concurrency: DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for bmtscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/bmtscan
// On macOS: ~/Library/Application Support/bmtscan
// On Windows: %LOCALAPPDATA%\bmtscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for bmtscan.
// On Linux: ~/.config/bmtscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// EffectiveDBDir returns the catalog directory, falling back to the XDG
// data directory when none is configured.
func (c *Config) EffectiveDBDir() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return XDGDataDir()
}

// EffectiveOutputDir returns the extraction output directory, deriving the
// default from the first input when none is configured.
func (c *Config) EffectiveOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	if len(c.Inputs) == 0 {
		return DefaultOutputDirName
	}
	return filepath.Join(filepath.Dir(c.Inputs[0]), DefaultOutputDirName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any processing begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one input to process
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	// A profile name is required; the resolver rejects unknown names later
	if c.Profile == "" {
		return ErrNoProfile
	}

	// Concurrency must be positive; zero would mean no extraction
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
