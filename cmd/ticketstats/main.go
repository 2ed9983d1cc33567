// Package main provides the CLI entry point for ticketstats.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ticketstats/internal/config"
	"ticketstats/internal/history"
	"ticketstats/internal/observability"
	"ticketstats/internal/orchestrator"
	"ticketstats/internal/output"
	"ticketstats/internal/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintln(stderr, "Usage: ticketstats [path]")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	out := output.New(output.NewConfig(stdout, stderr, cfg.Report.Verbose))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := orchestrator.Deps{Logger: logger, Output: out}
	if store := openHistory(ctx, cfg, logger); store != nil {
		defer store.Close()
		deps.History = store
	}

	if cfg.Watch.Enabled() {
		return watch(ctx, cfg, deps)
	}

	input := cfg.Input.DefaultPath
	if len(args) == 1 {
		input = args[0]
	}

	summary, err := orchestrator.Run(ctx, cfg, input, deps)
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}
	out.Verbose("%s", summary)
	out.Completed(summary.ReportPath)
	return 0
}

// openHistory connects the run-history store. A store that cannot be
// reached is logged and skipped; reports are still produced.
func openHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) history.Store {
	if !cfg.History.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	store, err := history.Open(ctx, cfg.History.DatabaseURL, cfg.History.Schema)
	if err != nil {
		logger.Warn("run history disabled", zap.Error(err))
		return nil
	}
	return store
}

// watch analyses every export dropped into the watch directory until
// interrupted.
func watch(ctx context.Context, cfg *config.Config, deps orchestrator.Deps) int {
	handler := func(ctx context.Context, path string) error {
		summary, err := orchestrator.Run(ctx, cfg, path, deps)
		if err != nil {
			deps.Output.Error("Error: %v", err)
			return err
		}
		deps.Output.Verbose("%s", summary)
		deps.Output.Completed(summary.ReportPath)
		return nil
	}

	w := watcher.New(watcher.Config{
		Debounce:        cfg.Watch.Debounce(),
		StableThreshold: cfg.Watch.StableWait(),
	}, handler, deps.Logger)

	if err := w.Start(cfg.Watch.Dir); err != nil {
		deps.Output.Error("Error: failed to watch %s: %v", cfg.Watch.Dir, err)
		return 1
	}
	deps.Output.Info("Watching %s for new exports (Ctrl+C to stop)", cfg.Watch.Dir)

	<-ctx.Done()
	s := w.Stop()
	deps.Output.WatchSummary(s.Reports, s.Failed, s.Skipped, s.Duration)
	return 0
}
