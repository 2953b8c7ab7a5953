package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/spot-grabber/internal/app"
	"github.com/oshokin/spot-grabber/internal/config"
	"github.com/oshokin/spot-grabber/internal/logger"
)

var (
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage the streaming-session token.

Use 'auth set-token' to store a session token in the configuration file.`,
	}

	authSetTokenCmd = &cobra.Command{
		Use:   "set-token {token}",
		Short: "Store a streaming-session token in the configuration file",
		Long: `Stores the given streaming-session token in the configuration file,
creating the file if it does not exist yet.

You can then rip a playlist:
spot-grabber spotify:playlist:37i9dQZF1DXcBWIGoYBM5M`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initAuthConfig,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteAuthSetTokenCommand(cmd.Context(), appConfig, args[0])
		},
	}
)

// initAuthConfig loads the configuration leniently: set-token must work
// before a configuration file exists.
func initAuthConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Warnf(cmd.Context(), "Configuration not loaded, a new file will be created: %v", err)

		appConfig = &config.Config{}
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	// Add set-token subcommand to auth command.
	authCmd.AddCommand(authSetTokenCmd)

	// Add auth command to root command.
	rootCmd.AddCommand(authCmd)
}
