package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/spot-grabber/internal/constants"
	"github.com/oshokin/spot-grabber/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// SessionToken is the streaming-session token used to authenticate with the audio backend.
	SessionToken string `mapstructure:"session_token"`
	// Market is the two-letter market code passed to catalog requests.
	Market string `mapstructure:"market"`
	// Format specifies the output audio format ("mp3" or "flac").
	Format string `mapstructure:"format"`
	// OutputPath is the directory path where ripped files will be saved.
	OutputPath string `mapstructure:"output_path"`
	// FFmpegPath is the path to the ffmpeg binary used for transcoding.
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// TrackPause is the pause duration between tracks (e.g., "5s"). "0" disables pausing.
	TrackPause string `mapstructure:"track_pause"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// CatalogBaseURL is the base URL for the catalog Web API (set automatically).
	CatalogBaseURL string
	// SessionBaseURL is the base URL for the streaming-session API (set automatically).
	SessionBaseURL string
	// ClearCredentials indicates whether cached credentials should be removed before the run.
	ClearCredentials bool
	// ParsedTrackPause is the parsed inter-track pause duration.
	ParsedTrackPause time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// CatalogBaseURL is the base URL for the catalog Web API.
	CatalogBaseURL = "https://api.spotify.com/v1"

	// SessionBaseURL is the base URL for the streaming-session API.
	SessionBaseURL = "https://spclient.spot-grabber.dev"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".spot-grabber.yaml"

	// DefaultMarket is the market code used when none is configured.
	DefaultMarket = "US"

	// DefaultFFmpegPath resolves ffmpeg through PATH.
	DefaultFFmpegPath = "ffmpeg"

	// DefaultTrackPause is the pause between tracks when none is configured.
	DefaultTrackPause = "5s"

	// DefaultMaxLogLength is the default maximum size (in bytes) for logged HTTP dumps.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// envPrefix is the prefix for environment variable overrides (SPOT_GRABBER_SESSION_TOKEN and so on).
	envPrefix = "SPOT_GRABBER"
)

// FormatMP3 and FormatFLAC are the supported output formats.
const (
	FormatMP3  = "mp3"
	FormatFLAC = "flac"
)

// Static error definitions for better error handling.
var (
	// ErrEmptySessionToken indicates that the session token is missing.
	ErrEmptySessionToken = errors.New("session token cannot be empty")
	// ErrInvalidMarket indicates that the market code is invalid.
	ErrInvalidMarket = errors.New("market must be a two-letter code")
	// ErrUnknownFormat indicates that the output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrEmptyFFmpegPath indicates that the ffmpeg path is missing.
	ErrEmptyFFmpegPath = errors.New("ffmpeg path cannot be empty")
	// ErrNegativeTrackPause indicates that the inter-track pause is negative.
	ErrNegativeTrackPause = errors.New("track_pause cannot be negative")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// LoadConfig loads configuration settings from a YAML file,
// applying .env and environment variable overrides on top.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	// A local .env file is optional.
	_ = godotenv.Load()

	viper.SetConfigFile(configFilename)
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("market", DefaultMarket)
	viper.SetDefault("format", FormatMP3)
	viper.SetDefault("ffmpeg_path", DefaultFFmpegPath)
	viper.SetDefault("track_pause", DefaultTrackPause)
	viper.SetDefault("log_level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	sessionToken := strings.TrimSpace(cfg.SessionToken)
	if sessionToken == "" {
		return ErrEmptySessionToken
	}

	cfg.CatalogBaseURL = CatalogBaseURL
	cfg.SessionBaseURL = SessionBaseURL

	market := strings.ToUpper(strings.TrimSpace(cfg.Market))
	if market == "" {
		market = DefaultMarket
	}

	if len(market) != 2 {
		return fmt.Errorf("%w: '%s'", ErrInvalidMarket, cfg.Market)
	}

	cfg.Market = market

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format != FormatMP3 && format != FormatFLAC {
		return fmt.Errorf("%w: '%s'", ErrUnknownFormat, cfg.Format)
	}

	cfg.Format = format

	if strings.TrimSpace(cfg.FFmpegPath) == "" {
		return ErrEmptyFFmpegPath
	}

	trackPause := strings.TrimSpace(cfg.TrackPause)
	if trackPause == "" || trackPause == "0" {
		cfg.ParsedTrackPause = 0
	} else {
		parsedTrackPause, err := time.ParseDuration(trackPause)
		if err != nil {
			return fmt.Errorf("failed to parse track pause: %w", err)
		}

		if parsedTrackPause < 0 {
			return ErrNegativeTrackPause
		}

		cfg.ParsedTrackPause = parsedTrackPause
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	return nil
}

// SaveConfig saves the configuration to the file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, cfg.SessionToken, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the session_token value in the node tree.
	updateSessionTokenInNode(&node, cfg.SessionToken)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, sessionToken string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set("session_token", sessionToken)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateSessionTokenInNode updates the session_token value in the YAML node tree.
func updateSessionTokenInNode(node *yaml.Node, sessionToken string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == "session_token" {
			// Update the value while preserving style.
			valueNode.Value = sessionToken

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			break
		}
	}
}
