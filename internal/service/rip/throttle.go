package rip

import (
	"context"
	"time"
)

// Pacer inserts a pause between consecutive track downloads.
// The pause keeps the request rate low enough to stay unremarkable.
type Pacer interface {
	// Pause blocks for the configured interval or until the context is canceled.
	Pause(ctx context.Context) error
}

// fixedPacer pauses for a fixed interval.
type fixedPacer struct {
	interval time.Duration
}

// NewFixedPacer returns a pacer with a fixed interval.
// A non-positive interval disables pausing.
func NewFixedPacer(interval time.Duration) Pacer {
	return &fixedPacer{interval: interval}
}

// Pause implements the Pacer interface.
func (p *fixedPacer) Pause(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
