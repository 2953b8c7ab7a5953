package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/spot-grabber/internal/app"
	"github.com/oshokin/spot-grabber/internal/config"
	"github.com/oshokin/spot-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "spot-grabber [flags] {playlist}",
		Short: "Rip a Spotify playlist into tagged audio files.",
		Long: `Spot Grabber is a CLI tool for ripping Spotify playlists into local audio files.

The playlist argument accepts either form:
- spotify:playlist:37i9dQZF1DXcBWIGoYBM5M
- https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M

Every track is fetched at the best available bitrate, transcoded with ffmpeg,
and tagged with the track's catalog metadata and cover art.`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig, args[0])
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"format",
		"f",
		"",
		"output audio format: mp3 or flac.")

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save ripped files (the path will be created if it doesn't exist).")

	rootCmdFlags.StringP(
		"market",
		"m",
		"",
		"two-letter market code for catalog requests, for example: US, DE, JP.")

	rootCmdFlags.StringP(
		"pause",
		"p",
		"",
		"pause between tracks, for example: 5s, 500ms. Use 0 to disable.")

	rootCmdFlags.Bool(
		"clear-credentials",
		false,
		"discard cached session credentials before the run.")

	rootCmdFlags.String(
		"log-level",
		"",
		"logging verbosity: debug, info, warn, error.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.Format, _ = flags.GetString("format")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("market"); flag != nil && flag.Changed {
		cfg.Market, _ = flags.GetString("market")
	}

	if flag := flags.Lookup("pause"); flag != nil && flag.Changed {
		cfg.TrackPause, _ = flags.GetString("pause")
	}

	if flag := flags.Lookup("clear-credentials"); flag != nil && flag.Changed {
		cfg.ClearCredentials, _ = flags.GetBool("clear-credentials")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	logger.SetLevel(cfg.ParsedLogLevel)

	return nil
}
