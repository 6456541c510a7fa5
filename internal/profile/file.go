package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default profile configuration file name.
const DefaultConfigFile = ".bmtscan.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrUnknownProfile is returned when a requested profile is neither built in
// nor defined in the configuration file.
var ErrUnknownProfile = errors.New("unknown profile")

// File represents the structure of the .bmtscan.yaml configuration file.
// Entries whose name matches a built-in profile override that built-in's
// fields; entries with new names define entirely new profiles.
type File struct {
	// Profiles maps profile names to their definitions or overrides.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// LoadFile loads profile definitions from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this based on whether the path was explicitly specified by the user.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}

	if f.Profiles == nil {
		f.Profiles = make(map[string]Profile)
	}

	return &f, nil
}

// FindFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .bmtscan.yaml in the current directory
// 3. Look for .bmtscan.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Resolve returns the profile with the given name, applying file overrides.
// A nil file resolves built-ins only. When the name matches a built-in and
// the file also defines it, the file's non-zero fields override the
// built-in's values; a file entry with a new name is returned as defined.
func Resolve(name string, f *File) (Profile, error) {
	base, isBuiltin := Builtin(name)

	if f == nil {
		if !isBuiltin {
			return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
		}
		return base, nil
	}

	override, hasOverride := f.Profiles[name]
	if !hasOverride {
		if !isBuiltin {
			return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
		}
		return base, nil
	}

	if !isBuiltin {
		// Entirely user-defined profile; backfill only the name.
		if override.Name == "" {
			override.Name = name
		}
		return override, nil
	}

	return merge(base, override), nil
}

// merge overlays the override's non-zero fields onto the base profile.
// Slice fields replace wholesale rather than appending: a user redefining
// the image table wants exactly their table, not a mix.
func merge(base, override Profile) Profile {
	result := base

	if override.Description != "" {
		result.Description = override.Description
	}
	if override.PixelHeaderSize != 0 {
		result.PixelHeaderSize = override.PixelHeaderSize
	}
	if len(override.Images) > 0 {
		result.Images = override.Images
	}
	if len(override.StabilityRanges) > 0 {
		result.StabilityRanges = override.StabilityRanges
	}
	if len(override.ScaleRegions) > 0 {
		result.ScaleRegions = override.ScaleRegions
	}
	if len(override.KnownResolutions) > 0 {
		result.KnownResolutions = override.KnownResolutions
	}
	if override.ContextRadius != 0 {
		result.ContextRadius = override.ContextRadius
	}
	if len(override.MarkerConstants) > 0 {
		result.MarkerConstants = override.MarkerConstants
	}
	if override.PlausibleWindow != (Window{}) {
		result.PlausibleWindow = override.PlausibleWindow
	}
	if override.PairSpread != 0 {
		result.PairSpread = override.PairSpread
	}
	if override.RankWindow != (Window{}) {
		result.RankWindow = override.RankWindow
	}
	if override.RankSpread != 0 {
		result.RankSpread = override.RankSpread
	}
	if override.TargetRange != (Window{}) {
		result.TargetRange = override.TargetRange
	}
	if len(override.ExcludedIntegers) > 0 {
		result.ExcludedIntegers = override.ExcludedIntegers
	}
	if override.EmbeddedMagic != "" {
		result.EmbeddedMagic = override.EmbeddedMagic
	}
	if override.SizeFieldOffset != 0 {
		result.SizeFieldOffset = override.SizeFieldOffset
	}

	return result
}
