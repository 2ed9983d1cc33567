// Package output handles console messages, including verbose mode and a
// transient status line on terminals.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output writes user-facing messages.
type Output struct {
	config       Config
	statusActive bool
	statusWidth  int
	mu           sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// NewConfig returns a Config for the given writers. IsTTY is only set when
// w is a terminal file.
func NewConfig(w, errW io.Writer, verbose bool) Config {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return Config{
		Verbose:   verbose,
		Writer:    w,
		ErrWriter: errW,
		IsTTY:     isTTY,
	}
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.write(o.config.Writer, format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.write(o.config.Writer, format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.write(o.config.ErrWriter, format, args...)
}

// Completed announces where a finished report was written.
func (o *Output) Completed(reportPath string) {
	o.Info("Analysis completed. Results saved to: %s", reportPath)
}

// WatchSummary prints the end-of-session counters for watch mode.
func (o *Output) WatchSummary(reports, failed, skipped int, elapsed time.Duration) {
	o.Info("Watch session ended after %s: %d report(s) written, %d failed, %d skipped",
		elapsed.Round(time.Second), reports, failed, skipped)
}

// Status shows a transient line on terminals, replaced by the next message.
// It is suppressed when not on a TTY or in verbose mode.
func (o *Output) Status(format string, args ...interface{}) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprint(o.config.Writer, "\r"+msg)
	o.statusActive = true
	o.statusWidth = len(msg)
}

// ClearStatus removes the transient line, if any.
func (o *Output) ClearStatus() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
}

func (o *Output) write(w io.Writer, format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

func (o *Output) clearLocked() {
	if !o.statusActive {
		return
	}
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", o.statusWidth)+"\r")
	o.statusActive = false
	o.statusWidth = 0
}
