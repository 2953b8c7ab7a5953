package rip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/oshokin/spot-grabber/internal/client/spotify"
	"github.com/oshokin/spot-grabber/internal/config"
	"github.com/oshokin/spot-grabber/internal/constants"
	"github.com/oshokin/spot-grabber/internal/logger"
	"github.com/oshokin/spot-grabber/internal/session"
)

// Service defines the interface for ripping playlists.
type Service interface {
	// RipPlaylist rips every track of the referenced playlist.
	// Per-track failures are recorded and do not stop the run;
	// the returned error covers setup failures only.
	RipPlaylist(ctx context.Context, reference string) error
	// PrintRunSummary prints a formatted summary of run statistics.
	PrintRunSummary(ctx context.Context)
}

// ServiceImpl implements the Service interface.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// catalog is the catalog Web API client.
	catalog spotify.Client
	// session is the streaming-session collaborator.
	session session.Session
	// transcoder converts acquired audio into the target format.
	transcoder Transcoder
	// tagger writes metadata tags to ripped files.
	tagger Tagger
	// pacer paces consecutive track downloads.
	pacer Pacer
	// format is the target output format.
	format OutputFormat

	// stats accumulates run statistics, guarded by statsMutex.
	stats      *RunStatistics
	statsMutex sync.Mutex
}

// Pipeline phase names used in logs and error records.
const (
	phaseMetadata  = "Metadata fetch"
	phaseAcquire   = "Audio acquisition"
	phaseTranscode = "Transcode"
	phaseTag       = "Tag write"
)

// NewService creates a new Service instance.
func NewService(
	cfg *config.Config,
	catalog spotify.Client,
	sess session.Session,
	transcoder Transcoder,
	tagger Tagger,
	pacer Pacer,
	format OutputFormat,
) Service {
	return &ServiceImpl{
		cfg:        cfg,
		catalog:    catalog,
		session:    sess,
		transcoder: transcoder,
		tagger:     tagger,
		pacer:      pacer,
		format:     format,
		stats:      &RunStatistics{},
	}
}

// RipPlaylist rips every track of the referenced playlist.
func (s *ServiceImpl) RipPlaylist(ctx context.Context, reference string) error {
	s.stats.StartTime = time.Now()
	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	canonical, err := ResolvePlaylistReference(reference)
	if err != nil {
		return err
	}

	playlistID, err := PlaylistIDFromReference(canonical)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Ripping playlist %s", canonical)

	trackIDs, err := s.catalog.ListPlaylistTrackIDs(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	if len(trackIDs) == 0 {
		logger.Warn(ctx, "The playlist has no tracks, nothing to do")

		return nil
	}

	// Each run gets its own playlist-id directory under the downloads root,
	// uniquified so reruns never overwrite earlier rips.
	outputDir, err := AllocateUniqueDirectory(filepath.Join(s.cfg.OutputPath, playlistID))
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Saving %d track(s) to %s", len(trackIDs), outputDir)

	bar := progressbar.Default(int64(len(trackIDs)), "Ripping tracks")

	for _, trackID := range trackIDs {
		if ctx.Err() != nil {
			logger.Warn(ctx, "Rip canceled, stopping")

			break
		}

		s.ripTrack(ctx, outputDir, trackID)

		_ = bar.Add(1)

		if err = s.pacer.Pause(ctx); err != nil {
			break
		}
	}

	return nil
}

// ripTrack runs the per-track pipeline: metadata, skip check, acquisition,
// transcode, tag write. Every phase failure is absorbed by the stage runner.
func (s *ServiceImpl) ripTrack(ctx context.Context, outputDir, trackID string) {
	var track *spotify.Track

	if !s.runStage(ctx, trackID, phaseMetadata, func() error {
		fetched, err := s.catalog.GetTrackMetadata(ctx, trackID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCatalog, err)
		}

		track = fetched

		return nil
	}) {
		return
	}

	// Absent is_playable means playable; only an explicit false skips.
	if track.IsPlayable != nil && !*track.IsPlayable {
		logger.Warnf(ctx, "Track %s ('%s') is not playable in market %s, skipping",
			trackID, track.Name, s.cfg.Market)
		s.incrementTrackSkipped()

		return
	}

	var acquired *acquireResult

	if !s.runStage(ctx, trackID, phaseAcquire, func() error {
		result, err := s.acquireTrackAudio(ctx, trackID)
		if err != nil {
			return err
		}

		acquired = result

		return nil
	}) {
		return
	}

	defer func() {
		if err := os.Remove(acquired.tempPath); err != nil && !os.IsNotExist(err) {
			logger.Debugf(ctx, "Failed to remove temporary file %s: %v", acquired.tempPath, err)
		}
	}()

	targetPath := BuildTrackPath(outputDir, track, s.format.Extension())

	if !s.runStage(ctx, trackID, phaseTranscode, func() error {
		if err := os.MkdirAll(filepath.Dir(targetPath), constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrFilesystem, err)
		}

		return s.transcoder.Transcode(ctx, acquired.tempPath, targetPath)
	}) {
		return
	}

	if !s.runStage(ctx, trackID, phaseTag, func() error {
		return s.tagger.WriteTags(ctx, &WriteTagsRequest{
			TrackPath: targetPath,
			Format:    s.format,
			Track:     track,
			TrackID:   trackID,
		})
	}) {
		return
	}

	s.incrementTrackRipped(acquired.bytesWritten, acquired.degraded)

	logger.Infof(ctx, "Ripped '%s' to %s", track.Name, targetPath)
}

// runStage executes one pipeline phase and absorbs its failure:
// the error is logged, recorded with phase context, and counted.
// Returns true when the phase succeeded.
func (s *ServiceImpl) runStage(ctx context.Context, trackID, phase string, fn func() error) bool {
	err := fn()
	if err == nil {
		return true
	}

	// Don't log context cancellation - it's expected when user presses CTRL+C.
	if !errors.Is(err, context.Canceled) {
		logger.Errorf(ctx, "%s failed for track %s: %v", phase, trackID, err)
	}

	s.recordTrackError(trackID, phase, err)
	s.incrementTrackFailed()

	return false
}
