package rip

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/spot-grabber/internal/logger"
)

// RunStatistics accumulates counters for a single rip run.
type RunStatistics struct {
	// TracksRipped is the number of tracks fully ripped, transcoded, and tagged.
	TracksRipped int64
	// TracksSkipped is the number of tracks skipped as unplayable.
	TracksSkipped int64
	// TracksFailed is the number of tracks that failed at some phase.
	TracksFailed int64
	// TracksDegraded is the number of tracks saved without key material.
	TracksDegraded int64
	// TotalTracksProcessed is the total number of tracks handled.
	TotalTracksProcessed int64
	// TotalBytesRipped is the total number of audio bytes fetched.
	TotalBytesRipped int64
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
	// Errors lists the per-track errors recorded during the run.
	Errors []TrackError
}

// TrackError records one per-track failure with phase context.
type TrackError struct {
	// TrackID is the failing track's catalog identifier.
	TrackID string
	// Phase names the pipeline phase that failed.
	Phase string
	// ErrorMessage is the failure description.
	ErrorMessage string
}

// summarySeparator frames the run summary.
const summarySeparator = "═══════════════════════════════════════════════════════════════"

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// incrementTrackRipped counts a fully ripped track and its bytes.
func (s *ServiceImpl) incrementTrackRipped(bytes int64, degraded bool) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksRipped++
	s.stats.TotalTracksProcessed++
	s.stats.TotalBytesRipped += bytes

	if degraded {
		s.stats.TracksDegraded++
	}
}

// incrementTrackSkipped counts a track skipped as unplayable.
func (s *ServiceImpl) incrementTrackSkipped() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksSkipped++
	s.stats.TotalTracksProcessed++
}

// incrementTrackFailed counts a failed track.
func (s *ServiceImpl) incrementTrackFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TracksFailed++
	s.stats.TotalTracksProcessed++
}

// recordTrackError records a per-track failure for the run summary.
func (s *ServiceImpl) recordTrackError(trackID, phase string, err error) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, TrackError{
		TrackID:      trackID,
		Phase:        phase,
		ErrorMessage: err.Error(),
	})
}

// PrintRunSummary prints a formatted summary of run statistics.
func (s *ServiceImpl) PrintRunSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print a summary.
	if stats.TotalTracksProcessed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printTrackStatistics(ctx, stats)
	s.printDataTransferStatistics(ctx, stats)
	logger.Info(ctx, summarySeparator)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	if wasInterrupted {
		logger.Info(ctx, "                 RIP SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                       RIP SUMMARY")
	}

	logger.Info(ctx, summarySeparator)
}

// printTrackStatistics prints per-track counters.
func (s *ServiceImpl) printTrackStatistics(ctx context.Context, stats *RunStatistics) {
	logger.Infof(ctx, "Tracks:           %d total processed", stats.TotalTracksProcessed)

	if stats.TracksRipped > 0 {
		logger.Infof(ctx, "  Ripped:          %d", stats.TracksRipped)
	}

	if stats.TracksDegraded > 0 {
		logger.Infof(ctx, "  Saved Unkeyed:   %d", stats.TracksDegraded)
	}

	if stats.TracksSkipped > 0 {
		logger.Infof(ctx, "  Skipped:         %d", stats.TracksSkipped)
	}

	if stats.TracksFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.TracksFailed)
	}

	if stats.TotalTracksProcessed > 0 {
		successCount := stats.TracksRipped + stats.TracksSkipped
		successRate := float64(successCount) / float64(stats.TotalTracksProcessed) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

// printDataTransferStatistics prints data transfer statistics.
func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *RunStatistics) {
	if stats.TotalBytesRipped > 0 {
		logger.Info(ctx, "")
		//nolint:gosec // TotalBytesRipped is always positive, no overflow risk.
		logger.Infof(ctx, "Audio Fetched:    %s", humanize.Bytes(uint64(stats.TotalBytesRipped)))
	}

	if !stats.StartTime.IsZero() && !stats.EndTime.IsZero() {
		duration := stats.EndTime.Sub(stats.StartTime)

		// Only show if duration is meaningful (> 100ms).
		if duration > 100*time.Millisecond {
			logger.Infof(ctx, "Duration:         %s", formatDuration(duration))
		}
	}
}

// printErrorDetails prints detailed error information if any errors occurred.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *RunStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	for i := range stats.Errors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] Track ID: %s", i+1, stats.Errors[i].TrackID)
		logger.Errorf(ctx, "      Phase: %s", stats.Errors[i].Phase)
		logger.Errorf(ctx, "      Error: %s", stats.Errors[i].ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)
}

// printFinalMessage prints a closing message based on run results.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *RunStatistics) {
	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Rip interrupted by user (CTRL+C).")

		if stats.TracksRipped > 0 {
			logger.Infof(ctx, "Successfully ripped %d track(s) before interruption.", stats.TracksRipped)
		}
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during the rip. See detailed error log above.", len(stats.Errors))
	case stats.TracksRipped > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All tracks ripped successfully!")
	}
}
