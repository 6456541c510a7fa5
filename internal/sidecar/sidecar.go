package sidecar

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/bmtscan/internal/model"
)

// Table maps capture base names to their sidecar entries.
type Table map[string]model.SidecarEntry

// Load reads a tab-delimited sidecar file with columns label, focus, min,
// max. Decimal commas are normalized to dots before parsing. A header row
// and rows that do not parse are skipped; only a missing or unreadable file
// is an error.
func Load(path string) (Table, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided sidecar path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open sidecar: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}

	table := make(Table)
	for _, record := range records {
		if len(record) < 4 {
			continue
		}

		label := strings.TrimSpace(record[0])
		if label == "" {
			continue
		}

		focus, okF := parseDecimal(record[1])
		minVal, okMin := parseDecimal(record[2])
		maxVal, okMax := parseDecimal(record[3])
		if !okF || !okMin || !okMax {
			// Header rows and stray lines land here.
			continue
		}

		table[label] = model.SidecarEntry{
			Label: label,
			Focus: focus,
			Min:   minVal,
			Max:   maxVal,
		}
	}

	return table, nil
}

// Lookup returns the entry matching a container's base name.
func (t Table) Lookup(base string) (model.SidecarEntry, bool) {
	entry, ok := t[base]
	return entry, ok
}

// parseDecimal parses a float that may use a decimal comma.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
