package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/bmtscan/internal/catalog"
	"github.com/nao1215/bmtscan/internal/config"
	"github.com/nao1215/bmtscan/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit bounds listings so an old catalog doesn't flood the
// terminal.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists past inspections and extractions stored in the catalog.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past inspections and extractions from the catalog",
		Long: `History lists analysis runs previously saved with --save.

By default it lists inspection runs, newest first. Use --extractions to
list extraction records instead, optionally filtered to one capture with
--base. A stored inspection report can be re-displayed in full with --id.

The catalog is never created by this command; if no run has been saved
yet, history reports that the catalog does not exist.

Examples:
  # List recent inspections
  bmtscan history

  # List inspections of one corpus
  bmtscan history --corpus captures/

  # Re-display a stored report
  bmtscan history --id 3

  # List extraction records for one capture
  bmtscan history --extractions --base cap1`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("corpus", "l", "",
		"Only list inspections of this corpus label")
	cmd.Flags().Int64P("id", "i", 0,
		"Display the full stored report with this catalog ID")
	cmd.Flags().BoolP("extractions", "e", false,
		"List extraction records instead of inspections")
	cmd.Flags().StringP("base", "b", "",
		"Only list extractions of this capture base name (implies --extractions)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of entries to list (0 for no limit)")
	cmd.Flags().BoolP("json", "j", false,
		"Output listings in JSON format")
	cmd.Flags().String("db-dir", "",
		"Catalog database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Read-only: a history query must not conjure an empty catalog
	db, err := catalog.Open(dbDir, catalog.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Handle --id first: it displays one report and ignores the list flags
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	if id > 0 {
		return showInspectionByID(ctx, db, id, jsonOutput)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	base, err := cmd.Flags().GetString("base")
	if err != nil {
		return err
	}
	extractions, err := cmd.Flags().GetBool("extractions")
	if err != nil {
		return err
	}
	if extractions || base != "" {
		return listExtractionHistory(ctx, db, base, limit, jsonOutput)
	}

	corpusFilter, err := cmd.Flags().GetString("corpus")
	if err != nil {
		return err
	}
	return listInspectionHistory(ctx, db, corpusFilter, limit, jsonOutput)
}

// showInspectionByID re-displays one stored inspection report.
func showInspectionByID(ctx context.Context, db *catalog.Catalog, id int64, jsonOutput bool) error {
	insp, err := db.GetInspectionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get inspection %d: %w", id, err)
	}
	if insp == nil {
		return fmt.Errorf("inspection with ID %d not found", id)
	}

	var w report.Writer
	if jsonOutput {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewTextWriter(os.Stdout)
	}
	_, err = w.Write(insp)
	return err
}

// listInspectionHistory lists stored inspection metadata.
func listInspectionHistory(ctx context.Context, db *catalog.Catalog, corpusFilter string, limit int, jsonOutput bool) error {
	entries, err := db.ListInspections(ctx, corpusFilter, limit)
	if err != nil {
		return fmt.Errorf("failed to list inspections: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		if corpusFilter != "" {
			fmt.Printf("No inspections found for %s\n", corpusFilter)
		} else {
			fmt.Println("No inspections found in the catalog.")
		}
		fmt.Println("\nUse 'bmtscan inspect --save <path>' to record an inspection.")
		return nil
	}

	fmt.Printf("Inspections (%d):\n\n", len(entries))
	fmt.Printf("  %-6s  %-20s  %-10s  %-6s  %s\n", "ID", "Date", "Profile", "Files", "Corpus")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, e := range entries {
		fmt.Printf("  %-6d  %-20s  %-10s  %-6d  %s\n",
			e.ID,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Profile,
			e.FileCount,
			e.CorpusLabel,
		)
	}
	fmt.Println("\nUse 'bmtscan history --id <id>' to re-display a stored report.")

	return nil
}

// listExtractionHistory lists stored extraction records.
func listExtractionHistory(ctx context.Context, db *catalog.Catalog, base string, limit int, jsonOutput bool) error {
	rows, err := db.ListExtractions(ctx, base, limit)
	if err != nil {
		return fmt.Errorf("failed to list extractions: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	if len(rows) == 0 {
		if base != "" {
			fmt.Printf("No extractions found for %s\n", base)
		} else {
			fmt.Println("No extractions found in the catalog.")
		}
		fmt.Println("\nUse 'bmtscan extract --save <path>' to record an extraction.")
		return nil
	}

	fmt.Printf("Extractions (%d):\n\n", len(rows))
	fmt.Printf("  %-6s  %-20s  %-10s  %-16s  %-7s  %s\n", "ID", "Date", "Profile", "Base", "Images", "Errors")
	fmt.Println("  " + strings.Repeat("-", 78))
	for _, row := range rows {
		fmt.Printf("  %-6d  %-20s  %-10s  %-16s  %-7d  %d\n",
			row.ID,
			row.Timestamp.Format("2006-01-02 15:04:05"),
			row.Profile,
			row.Record.Base,
			len(row.Record.Outputs),
			len(row.Record.Errors),
		)
	}

	return nil
}
