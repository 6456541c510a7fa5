package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/bmtscan/internal/model"
)

// FileName is the catalog database file name inside the catalog directory.
const FileName = "bmtscan.db"

// Catalog provides SQLite-based storage for inspection reports and
// extraction records. It manages connection pooling and provides methods
// for saving and listing past runs.
type Catalog struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Catalog behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default catalog options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Catalog in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned; this is the read-only mode used by history listing.
func Open(dbDir string, opts Options) (*Catalog, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog not found at %s (run an inspection or extraction first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check catalog path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	// Build connection string.
	// We use modernc.org/sqlite which uses a different connection string
	// format. When CreateIfNotExists is false, mode=rw prevents creating new
	// files; mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := c.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// createTables creates the catalog schema if it doesn't exist.
func (c *Catalog) createTables() error {
	schema := `
	-- Inspections store complete analysis reports as JSON
	CREATE TABLE IF NOT EXISTS inspections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		corpus_label TEXT NOT NULL,
		profile TEXT NOT NULL,
		file_count INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_inspections_corpus ON inspections(corpus_label);
	CREATE INDEX IF NOT EXISTS idx_inspections_timestamp ON inspections(timestamp);

	-- Extractions store one row per processed container file
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base TEXT NOT NULL,
		source TEXT NOT NULL,
		digest TEXT NOT NULL,
		profile TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		outputs_json TEXT NOT NULL,
		errors_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_base ON extractions(base);
	CREATE INDEX IF NOT EXISTS idx_extractions_digest ON extractions(digest);
	CREATE INDEX IF NOT EXISTS idx_extractions_timestamp ON extractions(timestamp);
	`

	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

// SaveInspection saves a complete inspection report as JSON.
func (c *Catalog) SaveInspection(ctx context.Context, report *model.InspectionReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO inspections (corpus_label, profile, file_count, report_json)
	VALUES (?, ?, ?, ?)
	`

	_, err = c.db.ExecContext(ctx, query,
		report.CorpusLabel,
		report.Profile,
		len(report.Files),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save inspection: %w", err)
	}

	return nil
}

// InspectionMetadata contains summary information about a stored inspection.
// This is used for listing history without loading full reports.
type InspectionMetadata struct {
	// ID is the unique identifier of the inspection in the catalog.
	ID int64

	// CorpusLabel names the inspected corpus.
	CorpusLabel string

	// Profile is the format profile the analysis ran under.
	Profile string

	// FileCount is the number of corpus members.
	FileCount int

	// Timestamp is when the inspection was saved.
	Timestamp time.Time
}

// ListInspections retrieves inspection metadata, newest first.
// An empty corpusLabel matches all corpora; limit <= 0 means no limit.
func (c *Catalog) ListInspections(ctx context.Context, corpusLabel string, limit int) ([]InspectionMetadata, error) {
	query := `
	SELECT id, corpus_label, profile, file_count, timestamp
	FROM inspections
	WHERE 1=1
	`
	args := make([]any, 0)

	if corpusLabel != "" {
		query += " AND corpus_label = ?"
		args = append(args, corpusLabel)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	var results []InspectionMetadata
	for rows.Next() {
		var meta InspectionMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.CorpusLabel, &meta.Profile, &meta.FileCount, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan inspection metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetInspectionByID retrieves a full inspection report by its catalog ID.
// Returns nil without error when the ID does not exist.
func (c *Catalog) GetInspectionByID(ctx context.Context, id int64) (*model.InspectionReport, error) {
	query := `
	SELECT report_json FROM inspections
	WHERE id = ?
	`

	var reportJSON string
	err := c.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}

	var report model.InspectionReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse inspection report: %w", err)
	}

	return &report, nil
}

// GetLatestInspection retrieves the most recent inspection for a corpus.
// Returns nil without error when no inspection matches.
func (c *Catalog) GetLatestInspection(ctx context.Context, corpusLabel string) (*model.InspectionReport, error) {
	query := `
	SELECT report_json FROM inspections
	WHERE corpus_label = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := c.db.QueryRowContext(ctx, query, corpusLabel).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}

	var report model.InspectionReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse inspection report: %w", err)
	}

	return &report, nil
}

// SaveExtraction saves one container's extraction outcome.
func (c *Catalog) SaveExtraction(ctx context.Context, profileName string, record model.ExtractionRecord) error {
	outputsJSON, err := json.Marshal(record.Outputs)
	if err != nil {
		return fmt.Errorf("failed to serialize outputs: %w", err)
	}
	errorsJSON, err := json.Marshal(record.Errors)
	if err != nil {
		return fmt.Errorf("failed to serialize errors: %w", err)
	}

	query := `
	INSERT INTO extractions (base, source, digest, profile, outputs_json, errors_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = c.db.ExecContext(ctx, query,
		record.Base,
		record.Source,
		record.Digest,
		profileName,
		string(outputsJSON),
		string(errorsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}

	return nil
}

// ExtractionRow is one stored extraction outcome.
type ExtractionRow struct {
	// ID is the unique identifier of the extraction in the catalog.
	ID int64

	// Record is the stored extraction outcome.
	Record model.ExtractionRecord

	// Profile is the format profile extraction ran under.
	Profile string

	// Timestamp is when the extraction was saved.
	Timestamp time.Time
}

// ListExtractions retrieves extraction rows, newest first.
// An empty base matches all containers; limit <= 0 means no limit.
func (c *Catalog) ListExtractions(ctx context.Context, base string, limit int) ([]ExtractionRow, error) {
	query := `
	SELECT id, base, source, digest, profile, timestamp, outputs_json, errors_json
	FROM extractions
	WHERE 1=1
	`
	args := make([]any, 0)

	if base != "" {
		query += " AND base = ?"
		args = append(args, base)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	var results []ExtractionRow
	for rows.Next() {
		var row ExtractionRow
		var timestamp string
		var outputsJSON string
		var errorsJSON sql.NullString

		err := rows.Scan(
			&row.ID,
			&row.Record.Base,
			&row.Record.Source,
			&row.Record.Digest,
			&row.Profile,
			&timestamp,
			&outputsJSON,
			&errorsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}

		row.Timestamp = parseTimestamp(timestamp)

		if err := json.Unmarshal([]byte(outputsJSON), &row.Record.Outputs); err != nil {
			return nil, fmt.Errorf("failed to parse outputs: %w", err)
		}
		if errorsJSON.Valid && errorsJSON.String != "" {
			if err := json.Unmarshal([]byte(errorsJSON.String), &row.Record.Errors); err != nil {
				return nil, fmt.Errorf("failed to parse errors: %w", err)
			}
		}

		results = append(results, row)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
