package rip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsService() *ServiceImpl {
	return &ServiceImpl{stats: &RunStatistics{}}
}

// TestFormatDuration tests human-readable duration formatting.
func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "milliseconds",
			duration: 250 * time.Millisecond,
			expected: "250ms",
		},
		{
			name:     "seconds only",
			duration: 42 * time.Second,
			expected: "42s",
		},
		{
			name:     "minutes and seconds",
			duration: 3*time.Minute + 5*time.Second,
			expected: "3m 5s",
		},
		{
			name:     "hours, minutes and seconds",
			duration: 2*time.Hour + 15*time.Minute + 30*time.Second,
			expected: "2h 15m 30s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}

// TestStatistics_IncrementTrackRipped tests the ripped-track counters.
func TestStatistics_IncrementTrackRipped(t *testing.T) {
	t.Parallel()

	s := newStatsService()

	s.incrementTrackRipped(1024, false)
	s.incrementTrackRipped(2048, true)

	assert.Equal(t, int64(2), s.stats.TracksRipped)
	assert.Equal(t, int64(1), s.stats.TracksDegraded)
	assert.Equal(t, int64(2), s.stats.TotalTracksProcessed)
	assert.Equal(t, int64(3072), s.stats.TotalBytesRipped)
}

// TestStatistics_IncrementTrackSkipped tests the skipped-track counters.
func TestStatistics_IncrementTrackSkipped(t *testing.T) {
	t.Parallel()

	s := newStatsService()

	s.incrementTrackSkipped()

	assert.Equal(t, int64(1), s.stats.TracksSkipped)
	assert.Equal(t, int64(1), s.stats.TotalTracksProcessed)
	assert.Equal(t, int64(0), s.stats.TracksRipped)
}

// TestStatistics_IncrementTrackFailed tests the failed-track counters.
func TestStatistics_IncrementTrackFailed(t *testing.T) {
	t.Parallel()

	s := newStatsService()

	s.incrementTrackFailed()

	assert.Equal(t, int64(1), s.stats.TracksFailed)
	assert.Equal(t, int64(1), s.stats.TotalTracksProcessed)
}

// TestStatistics_RecordTrackError tests per-track error recording.
func TestStatistics_RecordTrackError(t *testing.T) {
	t.Parallel()

	s := newStatsService()

	s.recordTrackError("t1", "Transcode", assert.AnError)

	require.Len(t, s.stats.Errors, 1)
	assert.Equal(t, "t1", s.stats.Errors[0].TrackID)
	assert.Equal(t, "Transcode", s.stats.Errors[0].Phase)
	assert.Equal(t, assert.AnError.Error(), s.stats.Errors[0].ErrorMessage)
}

// TestPrintRunSummary_NothingProcessed tests that an empty run prints nothing and does not panic.
func TestPrintRunSummary_NothingProcessed(t *testing.T) {
	t.Parallel()

	s := newStatsService()

	s.PrintRunSummary(context.Background())
}

// TestPrintRunSummary_WithResults tests that a populated run summary does not panic.
func TestPrintRunSummary_WithResults(t *testing.T) {
	t.Parallel()

	s := newStatsService()
	s.stats.StartTime = time.Now().Add(-3 * time.Second)
	s.stats.EndTime = time.Now()

	s.incrementTrackRipped(4096, true)
	s.incrementTrackSkipped()
	s.recordTrackError("t3", "Audio acquisition", assert.AnError)
	s.incrementTrackFailed()

	s.PrintRunSummary(context.Background())
}
