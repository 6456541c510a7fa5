package corpus

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// DefaultExtension is the container file extension matched during directory
// loading, compared case-insensitively.
const DefaultExtension = ".bmt"

// File is one loaded container: its raw contents plus identity metadata.
type File struct {
	// Name is the file's base name.
	Name string

	// Path is the path the file was read from.
	Path string

	// Data is the complete file contents.
	Data []byte

	// Digest is the BLAKE2b-256 digest of Data, hex encoded. It identifies
	// the capture in manifests and the catalog independent of file location.
	Digest string
}

// Base returns the file's base name without its extension.
func (f File) Base() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

// Corpus is an ordered collection of loaded containers, all presumed to
// share one nominal format version.
type Corpus struct {
	// Files holds the loaded containers in load order.
	Files []File
}

// Load reads the given paths into a corpus. Each path may be a single file
// or a directory; directories contribute every *.bmt file (case-insensitive)
// in lexicographic order. A missing path is fatal for the whole invocation.
func Load(paths ...string) (*Corpus, error) {
	c := &Corpus{Files: make([]File, 0, len(paths))}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("input not found: %w", err)
		}

		if info.IsDir() {
			if err := c.loadDir(path); err != nil {
				return nil, err
			}
			continue
		}

		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// loadDir loads every matching container in dir, sorted by name.
func (c *Corpus) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), DefaultExtension) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.loadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	return nil
}

// loadFile reads one container and appends it to the corpus.
func (c *Corpus) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	sum := blake2b.Sum256(data)
	c.Files = append(c.Files, File{
		Name:   filepath.Base(path),
		Path:   path,
		Data:   data,
		Digest: hex.EncodeToString(sum[:]),
	})

	return nil
}

// Len returns the number of files in the corpus.
func (c *Corpus) Len() int {
	return len(c.Files)
}

// MinLen returns the length of the shortest member, the bound for all
// cross-file byte comparisons. An empty corpus has MinLen 0.
func (c *Corpus) MinLen() int {
	if len(c.Files) == 0 {
		return 0
	}
	minLen := len(c.Files[0].Data)
	for _, f := range c.Files[1:] {
		if len(f.Data) < minLen {
			minLen = len(f.Data)
		}
	}
	return minLen
}

// Digest computes the BLAKE2b-256 digest of arbitrary container bytes,
// hex encoded. It matches the digests recorded on loaded files.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
