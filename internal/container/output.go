package container

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/bmtscan/internal/raster"
)

// WriteOutputs writes one raster file per successful result into dir, named
// <base>_<label>.bmp. Failed specs contribute their error message instead of
// a file; a write failure of one output does not stop the others.
func WriteOutputs(dir, base string, results []Result) (outputs []string, errs []string) {
	outputs = make([]string, 0, len(results))
	errs = make([]string, 0)

	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", result.Label, result.Err))
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.bmp", base, result.Label))

		var err error
		switch {
		case result.Raster != nil:
			err = writeRaster(path, result.Raster)
		case result.Container != nil:
			err = os.WriteFile(path, result.Container, 0600)
		default:
			continue
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", result.Label, err))
			continue
		}
		outputs = append(outputs, path)
	}

	return outputs, errs
}

// writeRaster encodes one image to a create-or-truncate file.
func writeRaster(path string, img *raster.Image) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := raster.EncodeBMP(f, img); err != nil {
		_ = f.Close() //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to encode raster: %w", err)
	}

	return f.Close()
}
