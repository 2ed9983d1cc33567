package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

var (
	// ErrFileNotFound is returned when the file disappears while waiting.
	ErrFileNotFound = errors.New("file not found")
	// ErrFileUnstable is returned when the size keeps changing past the timeout.
	ErrFileUnstable = errors.New("file did not stabilize within timeout")
)

// StabilityChecker waits until a file's size stops changing, so that an
// export still being copied into place is not read half-written.
type StabilityChecker struct {
	threshold time.Duration // size must hold this long
	timeout   time.Duration
	interval  time.Duration
}

// NewStabilityChecker creates a checker with a 30s timeout and a polling
// interval of threshold/4, at least 50ms.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &StabilityChecker{
		threshold: threshold,
		timeout:   30 * time.Second,
		interval:  interval,
	}
}

// WithTimeout returns a copy of s that gives up after timeout.
func (s *StabilityChecker) WithTimeout(timeout time.Duration) *StabilityChecker {
	c := *s
	c.timeout = timeout
	return &c
}

// WaitForStable blocks until the size of path has not changed for the
// threshold, the timeout expires, or ctx is cancelled.
func (s *StabilityChecker) WaitForStable(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	lastSize, err := fileSize(path)
	if err != nil {
		return err
	}
	lastChange := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrFileUnstable
			}
			return ctx.Err()
		case <-ticker.C:
			size, err := fileSize(path)
			if err != nil {
				return err
			}
			if size != lastSize {
				lastSize = size
				lastChange = time.Now()
			} else if time.Since(lastChange) >= s.threshold {
				return nil
			}
		}
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrFileNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}
