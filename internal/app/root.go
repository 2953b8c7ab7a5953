package app

import (
	"context"

	spotify_client "github.com/oshokin/spot-grabber/internal/client/spotify"
	"github.com/oshokin/spot-grabber/internal/config"
	"github.com/oshokin/spot-grabber/internal/logger"
	"github.com/oshokin/spot-grabber/internal/service/rip"
	"github.com/oshokin/spot-grabber/internal/session"
)

// ExecuteRootCommand is the entry point for the application.
// It opens the streaming session, sets up the necessary service components,
// and starts ripping the referenced playlist.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, reference string) {
	sess, err := session.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open streaming session: %v", err)
	}

	catalogClient := spotify_client.NewClient(cfg, sess)

	format, err := rip.ParseOutputFormat(cfg.Format)
	if err != nil {
		logger.Fatalf(ctx, "Failed to parse output format: %v", err)
	}

	transcoder := rip.NewFFmpegTranscoder(cfg.FFmpegPath, format)

	tagger, err := rip.NewTagger(catalogClient)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize tagger: %v", err)
	}

	pacer := rip.NewFixedPacer(cfg.ParsedTrackPause)

	s := rip.NewService(cfg, catalogClient, sess, transcoder, tagger, pacer, format)

	// Ensure statistics are ALWAYS printed, even on panic or os.Exit bypass.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintRunSummary(ctx)
	}()

	if err = s.RipPlaylist(ctx, reference); err != nil {
		// Setup failures only: per-track errors are absorbed by the service.
		logger.Fatalf(ctx, "Rip failed: %v", err)
	}
}
