package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/bmtscan/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display during a reverse-engineering
// session, with clear section formatting and escaped byte previews.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *TextWriter) Write(report *model.InspectionReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeFiles(&sb, report)
	w.writeStability(&sb, report)
	w.writeRankedPairs(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with inspection information.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.InspectionReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         BMTSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Corpus:     %s\n", report.CorpusLabel))
	sb.WriteString(fmt.Sprintf("Profile:    %s\n", report.Profile))
	sb.WriteString(fmt.Sprintf("Date:       %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Files:      %d\n", len(report.Files)))
	if len(report.PerformedSteps) > 0 {
		sb.WriteString(fmt.Sprintf("Steps:      %s\n", strings.Join(report.PerformedSteps, ", ")))
	}

	if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:     Complete\n")
	}

	sb.WriteString("\n")
}

// writeFiles writes the per-file findings sections.
func (w *TextWriter) writeFiles(sb *strings.Builder, report *model.InspectionReport) {
	for _, f := range report.Files {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("FILE: %s\n", f.Name))
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")

		sb.WriteString(fmt.Sprintf("  Size:   %d bytes\n", f.Size))
		sb.WriteString(fmt.Sprintf("  Digest: %s\n", f.Digest))
		if f.HeaderDump != "" {
			sb.WriteString("  Header:\n")
			for _, line := range strings.Split(strings.TrimRight(f.HeaderDump, "\n"), "\n") {
				sb.WriteString("    " + line + "\n")
			}
		}
		sb.WriteString("\n")

		w.writeDimensions(sb, f)
		w.writeConsistency(sb, f)
		w.writeScale(sb, f)
	}
}

// writeDimensions writes dimension signature hits for one file.
func (w *TextWriter) writeDimensions(sb *strings.Builder, f model.FileReport) {
	if len(f.Dimensions) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString("  Dimension signatures:\n")
	if len(f.Dimensions) == 0 {
		sb.WriteString("    none\n\n")
		return
	}

	for _, d := range f.Dimensions {
		marker := " "
		if isHighConfidence(f.HighConfidence, d) {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("  %s 0x%08X  %-6s %4dx%-4d", marker, d.Offset, d.Encoding, d.Width, d.Height))
		if w.verbose && len(d.Context) > 0 {
			sb.WriteString("  " + HexSnippet(d.Context, 24))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    (* = marker constant follows the pair)\n\n")
}

// isHighConfidence reports whether d appears in the high-confidence subset.
func isHighConfidence(subset []model.DimensionCandidate, d model.DimensionCandidate) bool {
	for _, h := range subset {
		if h.Offset == d.Offset && h.Encoding == d.Encoding {
			return true
		}
	}
	return false
}

// writeConsistency writes header-size boundary checks for one file.
func (w *TextWriter) writeConsistency(sb *strings.Builder, f model.FileReport) {
	if len(f.Consistency) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString("  Header-size consistency:\n")
	if len(f.Consistency) == 0 {
		sb.WriteString("    none\n\n")
		return
	}

	for _, c := range f.Consistency {
		status := "past EOF"
		if c.InBounds {
			status = "in bounds"
		}
		sb.WriteString(fmt.Sprintf("    %4dx%-4d header=%d end=0x%08X  %s\n",
			c.Width, c.Height, c.HeaderSize, c.ExpectedEnd, status))
		if len(c.Trailing) > 0 {
			sb.WriteString(fmt.Sprintf("      trailing: %s\n", HexSnippet(c.Trailing, 32)))
		}
		if c.TrailingUTF16 != "" {
			sb.WriteString(fmt.Sprintf("      utf16le:  %q\n", c.TrailingUTF16))
		}
	}
	sb.WriteString("\n")
}

// writeScale writes thermal-scale candidates for one file.
func (w *TextWriter) writeScale(sb *strings.Builder, f model.FileReport) {
	if len(f.ScalePairs) == 0 && len(f.ScaleSingles) == 0 && !w.showEmpty {
		return
	}

	if len(f.ScalePairs) > 0 || w.showEmpty {
		sb.WriteString("  Scale pairs:\n")
		for _, p := range f.ScalePairs {
			sb.WriteString(fmt.Sprintf("    %-18s 0x%08X %-8s low=%.2f high=%.2f\n",
				p.Region, p.Offset, p.Interpretation, p.Low, p.High))
		}
		if len(f.ScalePairs) == 0 {
			sb.WriteString("    none\n")
		}
		sb.WriteString("\n")
	}

	if w.verbose && len(f.ScaleSingles) > 0 {
		sb.WriteString("  Scale singles:\n")
		for _, s := range f.ScaleSingles {
			sb.WriteString(fmt.Sprintf("    %-18s 0x%08X %-8s %.2f\n",
				s.Region, s.Offset, s.Interpretation, s.Value))
		}
		sb.WriteString("\n")
	}
}

// writeStability writes the corpus stability map, one section per range.
func (w *TextWriter) writeStability(sb *strings.Builder, report *model.InspectionReport) {
	if len(report.Stability) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RANGE STABILITY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, label := range sortedStabilityLabels(report) {
		runs := report.Stability[label]
		sb.WriteString(fmt.Sprintf("  [%s]\n", label))
		if len(runs) == 0 {
			sb.WriteString("    outside corpus bounds\n\n")
			continue
		}
		for _, run := range runs {
			kind := "varies"
			if run.Stable {
				kind = "stable"
			}
			sb.WriteString(fmt.Sprintf("    0x%08X +%-6d %s", run.Offset, run.Length, kind))
			if run.Stable && len(run.Preview) > 0 {
				sb.WriteString("  " + EscapeBytes(run.Preview))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
}

// writeRankedPairs writes corpus-ranked scale candidates, best first.
func (w *TextWriter) writeRankedPairs(sb *strings.Builder, report *model.InspectionReport) {
	if len(report.RankedPairs) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RANKED SCALE CANDIDATES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.RankedPairs) == 0 {
		sb.WriteString("  No candidates survived corpus ranking\n\n")
		return
	}

	for i, p := range report.RankedPairs {
		sb.WriteString(fmt.Sprintf("  %2d. %-18s 0x%08X %-8s [%.2f, %.2f] files=%d dist=%.2f\n",
			i+1, p.Region, p.Offset, p.Interpretation,
			p.GlobalLow, p.GlobalHigh, p.FileCount, p.Distance))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by bmtscan\n")
	sb.WriteString("https://github.com/nao1215/bmtscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
