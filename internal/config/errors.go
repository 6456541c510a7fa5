package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoInput is returned when no container file or directory is specified.
	ErrNoInput = errors.New("no input specified: provide a container file or directory")

	// ErrNoProfile is returned when the profile name is empty.
	ErrNoProfile = errors.New("no profile specified: use --profile or a config file")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	// A concurrency of zero would mean no containers get processed.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
