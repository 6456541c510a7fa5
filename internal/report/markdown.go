package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/markdown"
)

// sortedStabilityLabels returns the stability map keys in ascending order.
// Map iteration order is random; reports must be reproducible.
func sortedStabilityLabels(report *model.InspectionReport) []string {
	labels := make([]string, 0, len(report.Stability))
	for label := range report.Stability {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for lab notebooks and sharing reverse-engineering
// sessions with collaborators.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.InspectionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeFiles(md, report)
	w.writeStability(md, report)
	w.writeRankedPairs(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with inspection information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.InspectionReport) {
	md.H1("BMTScan Report")
	md.PlainText("")

	status := "✅ Complete"
	if report.ErrorMessage != "" {
		status = "❌ Error - " + report.ErrorMessage
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Corpus", "`" + report.CorpusLabel + "`"},
			{"Profile", report.Profile},
			{"Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Files", strconv.Itoa(len(report.Files))},
			{"Status", status},
		},
	})
	md.PlainText("")

	w.writeAlert(md, report)
}

// writeAlert writes an appropriate alert based on what the inspection found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.InspectionReport) {
	switch {
	case report.ErrorMessage != "":
		md.Warningf("The inspection did not complete: %s", report.ErrorMessage)
	case len(report.RankedPairs) > 0:
		best := report.RankedPairs[0]
		md.Tipf(
			"Best thermal scale candidate: `%s` at offset `0x%X` (%s), range [%.2f, %.2f] °C across %d file(s).",
			best.Region, best.Offset, best.Interpretation, best.GlobalLow, best.GlobalHigh, best.FileCount,
		)
	case report.TotalDimensionHits() > 0:
		md.Notef("%d dimension signature(s) located; no scale candidates survived ranking.",
			report.TotalDimensionHits())
	default:
		md.Note("No structural findings. Check the profile against the corpus format version.")
	}
	md.PlainText("")
}

// writeFiles writes the per-file findings sections.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, report *model.InspectionReport) {
	for _, f := range report.Files {
		md.H2(f.Name)
		md.PlainText("")
		md.PlainTextf("%d bytes, BLAKE2b `%s`", f.Size, f.Digest)
		md.PlainText("")

		if f.HeaderDump != "" {
			md.CodeBlocks(markdown.SyntaxHighlightText, f.HeaderDump)
			md.PlainText("")
		}

		w.writeDimensionsTable(md, f)
		w.writeConsistencyTable(md, f)
		w.writeScalePairsTable(md, f)
	}
}

// writeDimensionsTable writes dimension signature hits for one file.
func (w *MarkdownWriter) writeDimensionsTable(md *markdown.Markdown, f model.FileReport) {
	if len(f.Dimensions) == 0 {
		return
	}

	md.H3("Dimension signatures")
	md.PlainText("")

	rows := make([][]string, len(f.Dimensions))
	for i, d := range f.Dimensions {
		confidence := ""
		if isHighConfidence(f.HighConfidence, d) {
			confidence = "high"
		}
		rows[i] = []string{
			fmt.Sprintf("`0x%08X`", d.Offset),
			string(d.Encoding),
			fmt.Sprintf("%dx%d", d.Width, d.Height),
			confidence,
			"`" + HexSnippet(d.Context, 16) + "`",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Offset", "Encoding", "Resolution", "Confidence", "Context"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeConsistencyTable writes header-size boundary checks for one file.
func (w *MarkdownWriter) writeConsistencyTable(md *markdown.Markdown, f model.FileReport) {
	if len(f.Consistency) == 0 {
		return
	}

	md.H3("Header-size consistency")
	md.PlainText("")

	rows := make([][]string, len(f.Consistency))
	for i, c := range f.Consistency {
		status := "past EOF"
		if c.InBounds {
			status = "in bounds"
		}
		trailing := "-"
		if len(c.Trailing) > 0 {
			trailing = "`" + HexSnippet(c.Trailing, 16) + "`"
		}
		rows[i] = []string{
			fmt.Sprintf("%dx%d", c.Width, c.Height),
			strconv.Itoa(c.HeaderSize),
			fmt.Sprintf("`0x%08X`", c.ExpectedEnd),
			status,
			trailing,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Resolution", "Header", "Expected end", "Status", "Trailing"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeScalePairsTable writes thermal-scale pair candidates for one file.
func (w *MarkdownWriter) writeScalePairsTable(md *markdown.Markdown, f model.FileReport) {
	if len(f.ScalePairs) == 0 {
		return
	}

	md.H3("Scale pairs")
	md.PlainText("")

	rows := make([][]string, len(f.ScalePairs))
	for i, p := range f.ScalePairs {
		rows[i] = []string{
			p.Region,
			fmt.Sprintf("`0x%08X`", p.Offset),
			string(p.Interpretation),
			fmt.Sprintf("%.2f", p.Low),
			fmt.Sprintf("%.2f", p.High),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Region", "Offset", "Interpretation", "Low", "High"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeStability writes the corpus stability map.
func (w *MarkdownWriter) writeStability(md *markdown.Markdown, report *model.InspectionReport) {
	if len(report.Stability) == 0 {
		return
	}

	md.H2("Range Stability")
	md.PlainText("")

	for _, label := range sortedStabilityLabels(report) {
		runs := report.Stability[label]
		md.H3(label)
		md.PlainText("")

		if len(runs) == 0 {
			md.PlainText("Outside corpus bounds.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, len(runs))
		for i, run := range runs {
			kind := "varies"
			if run.Stable {
				kind = "stable"
			}
			preview := "-"
			if run.Stable && len(run.Preview) > 0 {
				preview = "`" + EscapeBytes(run.Preview) + "`"
			}
			rows[i] = []string{
				fmt.Sprintf("`0x%08X`", run.Offset),
				strconv.Itoa(run.Length),
				kind,
				preview,
			}
		}

		md.Table(markdown.TableSet{
			Header: []string{"Offset", "Length", "Kind", "Preview"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeRankedPairs writes corpus-ranked scale candidates, best first.
func (w *MarkdownWriter) writeRankedPairs(md *markdown.Markdown, report *model.InspectionReport) {
	if len(report.RankedPairs) == 0 {
		return
	}

	md.H2("Ranked Scale Candidates")
	md.PlainText("")

	rows := make([][]string, len(report.RankedPairs))
	for i, p := range report.RankedPairs {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.Region,
			fmt.Sprintf("`0x%08X`", p.Offset),
			string(p.Interpretation),
			fmt.Sprintf("%.2f", p.GlobalLow),
			fmt.Sprintf("%.2f", p.GlobalHigh),
			strconv.Itoa(p.FileCount),
			fmt.Sprintf("%.2f", p.Distance),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Region", "Offset", "Interpretation", "Low", "High", "Files", "Distance"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [bmtscan](https://github.com/nao1215/bmtscan)*")
}
