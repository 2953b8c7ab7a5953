package app

import (
	"context"

	"github.com/oshokin/spot-grabber/internal/config"
	"github.com/oshokin/spot-grabber/internal/logger"
)

// ExecuteAuthSetTokenCommand executes the auth set-token command.
// It stores the given session token in the configuration file.
func ExecuteAuthSetTokenCommand(ctx context.Context, cfg *config.Config, token string) {
	// Update configuration with new token.
	cfg.SessionToken = token

	// Save configuration to file.
	if err := config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
		return
	}

	// Print success message.
	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "You can now rip a playlist:")
	logger.Info(ctx, "spot-grabber spotify:playlist:37i9dQZF1DXcBWIGoYBM5M")
}
