// Package history records report runs in Postgres.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"ticketstats/internal/analysis"
)

// Record is one stored run.
type Record struct {
	RunID              uuid.UUID
	StartedAt          time.Time
	InputPath          string
	ReportPath         string
	TotalRows          int
	OpenCount          int
	ClosedCount        int
	NewToday           int
	ClosedToday        int
	EmptyFirstResponse int
	OpenByPriority     []analysis.Count
}

// NewRecord extracts the stored figures from res.
func NewRecord(runID uuid.UUID, startedAt time.Time, inputPath, reportPath string, res *analysis.Results) Record {
	rec := Record{
		RunID:       runID,
		StartedAt:   startedAt,
		InputPath:   inputPath,
		ReportPath:  reportPath,
		TotalRows:   res.Summary.TotalRecords,
		OpenCount:   res.Summary.CurrentOpen,
		ClosedCount: res.Summary.TotalClosed,
		NewToday:    res.Today.NewToday,
		ClosedToday: res.Today.ClosedToday,
	}
	if res.FirstResponse.Available {
		rec.EmptyFirstResponse = res.FirstResponse.Total
	}
	if res.OpenPriority.PriorityAvailable {
		rec.OpenByPriority = append([]analysis.Count(nil), res.OpenPriority.Counts...)
	}
	return rec
}

// Store persists run records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Close() error
}

var schemaPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SanitizeSchema trims value and rejects anything that is not a plain
// identifier. The schema is interpolated into SQL, so this is the only gate.
func SanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	if !schemaPattern.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

// PostgresStore writes records through database/sql using the pgx driver.
type PostgresStore struct {
	db     *sql.DB
	schema string
}

// Open connects to url and creates the schema and tables when missing.
func Open(ctx context.Context, url, schema string) (*PostgresStore, error) {
	schema, err := SanitizeSchema(schema)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach history database: %w", err)
	}
	if err := ensureSchema(ctx, db, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare history schema: %w", err)
	}
	return &PostgresStore{db: db, schema: schema}, nil
}

// Save stores rec and its priority rows in one transaction.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, insertRunSQL(s.schema),
		rec.RunID,
		rec.StartedAt,
		rec.InputPath,
		rec.ReportPath,
		rec.TotalRows,
		rec.OpenCount,
		rec.ClosedCount,
		rec.NewToday,
		rec.ClosedToday,
		rec.EmptyFirstResponse,
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	insertPriority := insertPrioritySQL(s.schema)
	for _, c := range rec.OpenByPriority {
		if _, err := tx.ExecContext(ctx, insertPriority, uuid.New(), rec.RunID, c.Label, c.Count); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func insertRunSQL(schema string) string {
	return fmt.Sprintf(`
		INSERT INTO %s.report_runs (
			id, started_at, input_path, report_path, total_rows,
			open_count, closed_count, new_today, closed_today, empty_first_response
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,$10
		)`, schema)
}

func insertPrioritySQL(schema string) string {
	return fmt.Sprintf(`
		INSERT INTO %s.report_open_priority (
			id, run_id, priority, open_count
		) VALUES (
			$1,$2,$3,$4
		)`, schema)
}

func schemaStatements(schema string) []string {
	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.report_runs (
			id uuid PRIMARY KEY,
			started_at timestamptz NOT NULL,
			input_path text NOT NULL,
			report_path text NOT NULL,
			total_rows integer NOT NULL,
			open_count integer NOT NULL,
			closed_count integer NOT NULL,
			new_today integer NOT NULL,
			closed_today integer NOT NULL,
			empty_first_response integer NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.report_open_priority (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.report_runs(id) ON DELETE CASCADE,
			priority text NOT NULL,
			open_count integer NOT NULL
		)`, schema, schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_report_runs_started_idx ON %s.report_runs (started_at)`, schema, schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_report_open_priority_run_idx ON %s.report_open_priority (run_id)`, schema, schema),
	}
}

func ensureSchema(ctx context.Context, db *sql.DB, schema string) error {
	for _, stmt := range schemaStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
