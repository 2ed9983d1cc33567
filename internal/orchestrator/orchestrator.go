// Package orchestrator coordinates one analysis run: input resolution,
// loading, aggregation, report files and run history.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ticketstats/internal/analysis"
	"ticketstats/internal/columns"
	"ticketstats/internal/config"
	"ticketstats/internal/history"
	"ticketstats/internal/output"
	"ticketstats/internal/report"
	"ticketstats/internal/scanner"
	"ticketstats/internal/table"
	"ticketstats/internal/tickets"
)

// Deps carries the collaborators of a run. Zero values are replaced with
// no-op or real-clock defaults.
type Deps struct {
	Logger  *zap.Logger
	Output  *output.Output
	History history.Store // nil disables run history
	Now     func() time.Time
	NewID   func() uuid.UUID
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Output == nil {
		d.Output = output.New(output.Config{Writer: io.Discard, ErrWriter: io.Discard})
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.New
	}
	return d
}

// ResolveInput returns input unchanged unless it names a directory, in
// which case the newest spreadsheet inside it is used.
func ResolveInput(input string) (string, error) {
	info, err := os.Stat(input)
	if err != nil || !info.IsDir() {
		// a missing file is reported by the loader
		return input, nil
	}
	latest, err := scanner.Latest(input)
	if err != nil {
		return "", err
	}
	return latest.FullPath, nil
}

// Run analyses input and writes the report into cfg.Report.OutputDir.
// A report file is produced even when the input cannot be read; in that
// case it holds the header and the read error, and Run returns the error.
func Run(ctx context.Context, cfg *config.Config, input string, deps Deps) (*RunSummary, error) {
	deps = deps.withDefaults()
	start := deps.Now()
	runID := deps.NewID()
	log := deps.Logger.With(zap.String("run_id", runID.String()))

	summary := &RunSummary{RunID: runID.String(), Input: input}
	defer func() { summary.Duration = deps.Now().Sub(start) }()

	if err := os.MkdirAll(cfg.Report.OutputDir, 0755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}
	summary.ReportPath = report.UniquePath(cfg.Report.OutputDir, report.FileName(start, ".txt"))

	f, err := os.Create(summary.ReportPath)
	if err != nil {
		return summary, fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	rep := report.New(f)
	rep.Header()

	deps.Output.Status("Analyzing %s...", input)
	defer deps.Output.ClearStatus()

	tbl, path, err := load(input)
	summary.Input = path
	if err != nil {
		rep.LoadFailure(err)
		if werr := flush(f, rep); werr != nil {
			log.Error("failed to write report", zap.Error(werr))
		}
		log.Error("failed to read input", zap.String("input", input), zap.Error(err))
		return summary, fmt.Errorf("failed to read %s: %w", input, err)
	}

	cols := columns.Resolve(tbl.Headers, columns.DefaultAliases())
	ds := tickets.Build(tbl, cols)
	summary.Rows = ds.Len()
	rep.Overview(path, ds)
	deps.Output.Verbose("Loaded %d rows from %s", ds.Len(), path)
	deps.Output.Verbose("Identified columns: %s", cols)

	if cols.Empty() {
		summary.Unmapped = true
		rep.Unmapped(tbl.Headers)
		log.Warn("no known columns in input", zap.String("input", path), zap.Strings("headers", tbl.Headers))
		if err := flush(f, rep); err != nil {
			return summary, fmt.Errorf("failed to write report: %w", err)
		}
		return summary, nil
	}

	res := analysis.Analyze(ds, start)
	summary.Open = res.Summary.CurrentOpen
	logDegraded(log, cols)

	if err := rep.Write(res); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}
	if err := flush(f, rep); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Report.JSON {
		jsonPath := strings.TrimSuffix(summary.ReportPath, ".txt") + ".json"
		doc := report.Document{
			RunID:   summary.RunID,
			Input:   path,
			Columns: cols.Headers(),
			Results: res,
		}
		if err := report.WriteJSON(doc, jsonPath); err != nil {
			return summary, err
		}
		summary.JSONPath = jsonPath
	}

	if deps.History != nil {
		rec := history.NewRecord(runID, start, path, summary.ReportPath, res)
		if err := deps.History.Save(ctx, rec); err != nil {
			log.Warn("failed to record run history", zap.Error(err))
		} else {
			summary.Recorded = true
		}
	}

	log.Info("analysis completed",
		zap.String("input", path),
		zap.Int("rows", summary.Rows),
		zap.Int("open", summary.Open),
		zap.String("report", summary.ReportPath),
		zap.Duration("duration", deps.Now().Sub(start)),
	)
	return summary, nil
}

// load resolves input and reads it. The returned path is the file that
// was attempted, or input itself when resolution failed.
func load(input string) (*table.Table, string, error) {
	path, err := ResolveInput(input)
	if err != nil {
		return nil, input, err
	}
	tbl, err := table.Load(path)
	if err != nil {
		return nil, path, err
	}
	return tbl, path, nil
}

// flush surfaces the report's sticky write error and syncs the file.
func flush(f *os.File, rep *report.Reporter) error {
	if err := rep.Err(); err != nil {
		return err
	}
	return f.Sync()
}

// logDegraded warns about every section that lacks its input columns.
func logDegraded(log *zap.Logger, cols columns.Map) {
	need := []struct {
		section string
		fields  []columns.Field
	}{
		{"daily", []columns.Field{columns.Created, columns.Closed}},
		{"states", []columns.Field{columns.State}},
		{"first_response", []columns.Field{columns.FirstResponse, columns.State, columns.Priority}},
		{"open_by_priority", []columns.Field{columns.Closed, columns.Priority}},
		{"open_by_age", []columns.Field{columns.Closed, columns.Age}},
	}
	for _, n := range need {
		var missing []string
		for _, f := range n.fields {
			if !cols.Has(f) {
				missing = append(missing, string(f))
			}
		}
		if len(missing) > 0 {
			log.Warn("report section degraded", zap.String("section", n.section), zap.Strings("missing", missing))
		}
	}
}
