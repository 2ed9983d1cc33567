package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestOutput(verbose, tty bool) (*Output, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(Config{
		Verbose:   verbose,
		Writer:    &out,
		ErrWriter: &errOut,
		IsTTY:     tty,
	}), &out, &errOut
}

func TestVerboseOutputOnlyAppearsWhenEnabled(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		expectEmpty bool
	}{
		{"verbose disabled - no output", false, true},
		{"verbose enabled - has output", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, buf, _ := newTestOutput(tt.verbose, false)

			out.Verbose("resolved %d columns", 7)

			if tt.expectEmpty && buf.Len() > 0 {
				t.Errorf("expected no output when verbose disabled, got: %q", buf.String())
			}
			if !tt.expectEmpty && buf.String() != "resolved 7 columns\n" {
				t.Errorf("unexpected verbose output %q", buf.String())
			}
		})
	}
}

func TestErrorGoesToErrWriter(t *testing.T) {
	out, buf, errBuf := newTestOutput(false, false)

	out.Error("Error: %s", "boom")

	if buf.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", buf.String())
	}
	if errBuf.String() != "Error: boom\n" {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestCompleted(t *testing.T) {
	out, buf, _ := newTestOutput(false, false)

	out.Completed("2025-08-25_00-08-00.txt")

	want := "Analysis completed. Results saved to: 2025-08-25_00-08-00.txt\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWatchSummary(t *testing.T) {
	out, buf, _ := newTestOutput(false, false)

	out.WatchSummary(3, 1, 2, 90*time.Second+400*time.Millisecond)

	want := "Watch session ended after 1m30s: 3 report(s) written, 1 failed, 2 skipped\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestStatus_SuppressedWithoutTTY(t *testing.T) {
	out, buf, _ := newTestOutput(false, false)

	out.Status("Analyzing %s...", "export.xlsx")
	out.ClearStatus()

	if buf.Len() != 0 {
		t.Errorf("expected no status output on non-TTY, got %q", buf.String())
	}
}

func TestStatus_SuppressedInVerboseMode(t *testing.T) {
	out, buf, _ := newTestOutput(true, true)

	out.Status("Analyzing...")

	if buf.Len() != 0 {
		t.Errorf("expected no status output in verbose mode, got %q", buf.String())
	}
}

func TestStatus_ClearedByNextMessage(t *testing.T) {
	out, buf, _ := newTestOutput(false, true)

	out.Status("Analyzing export.xlsx...")
	out.Info("done")

	got := buf.String()
	if !strings.HasPrefix(got, "\rAnalyzing export.xlsx...") {
		t.Errorf("expected status line first, got %q", got)
	}
	clear := "\r" + strings.Repeat(" ", len("Analyzing export.xlsx...")) + "\r"
	if !strings.Contains(got, clear+"done\n") {
		t.Errorf("expected status to be cleared before the message, got %q", got)
	}
	if out.statusActive {
		t.Error("status should be inactive after a message")
	}
}

func TestInfoAlwaysEndsWithNewline(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Info output ends with exactly one added newline", prop.ForAll(
		func(msg string) bool {
			out, buf, _ := newTestOutput(false, false)
			out.Info("%s", msg)
			got := buf.String()
			if strings.HasSuffix(msg, "\n") {
				return got == msg
			}
			return got == msg+"\n"
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestNewConfig_NonFileWriterIsNotTTY(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig(&buf, &buf, true)
	if cfg.IsTTY {
		t.Error("a buffer is never a terminal")
	}
	if !cfg.Verbose || cfg.Writer != &buf {
		t.Errorf("unexpected config %+v", cfg)
	}
}
