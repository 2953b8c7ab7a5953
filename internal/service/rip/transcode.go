package rip

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oshokin/spot-grabber/internal/constants"
)

// OutputFormat is the target audio format of the pipeline.
type OutputFormat uint8

// Supported output formats.
const (
	// FormatMP3 produces MP3 files via libmp3lame at the highest VBR quality.
	FormatMP3 OutputFormat = iota + 1
	// FormatFLAC produces FLAC files at maximum compression.
	FormatFLAC
)

// maxTranscodeOutputLength bounds ffmpeg output carried inside error messages.
const maxTranscodeOutputLength = 2048

// ErrUnknownOutputFormat indicates an unrecognized output format name.
var ErrUnknownOutputFormat = errors.New("unknown output format")

// ParseOutputFormat converts a format name ("mp3", "flac") into an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mp3":
		return FormatMP3, nil
	case "flac":
		return FormatFLAC, nil
	default:
		return 0, fmt.Errorf("%w: '%s'", ErrUnknownOutputFormat, name)
	}
}

// Extension returns the file extension of the format, including the dot.
func (f OutputFormat) Extension() string {
	if f == FormatFLAC {
		return constants.ExtensionFLAC
	}

	return constants.ExtensionMP3
}

// Transcoder converts a source audio file into the target format.
type Transcoder interface {
	// Transcode converts sourcePath into targetPath, blocking until done.
	Transcode(ctx context.Context, sourcePath, targetPath string) error
}

// FFmpegTranscoder runs ffmpeg as a blocking subprocess.
type FFmpegTranscoder struct {
	// binaryPath is the ffmpeg binary path or name resolved through PATH.
	binaryPath string
	// format is the target output format.
	format OutputFormat
}

// NewFFmpegTranscoder creates a transcoder invoking the given ffmpeg binary.
func NewFFmpegTranscoder(binaryPath string, format OutputFormat) Transcoder {
	return &FFmpegTranscoder{
		binaryPath: binaryPath,
		format:     format,
	}
}

// Transcode implements the Transcoder interface.
// Any subprocess failure wraps ErrTranscode; the exit code and the tail of
// ffmpeg's output are carried in the error message.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, sourcePath, targetPath string) error {
	//nolint:gosec // The binary path comes from validated configuration.
	command := exec.CommandContext(ctx, t.binaryPath, t.buildArgs(sourcePath, targetPath)...)

	output, err := command.CombinedOutput()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: exit code %d: %s", ErrTranscode, exitErr.ExitCode(), truncateTranscodeOutput(output))
	}

	return fmt.Errorf("%w: %w", ErrTranscode, err)
}

// buildArgs builds the ffmpeg argument list for the configured format.
func (t *FFmpegTranscoder) buildArgs(sourcePath, targetPath string) []string {
	args := []string{"-y", "-i", sourcePath}

	if t.format == FormatFLAC {
		args = append(args, "-codec:a", "flac", "-compression_level", "12")
	} else {
		args = append(args, "-codec:a", "libmp3lame", "-qscale:a", "0")
	}

	return append(args, targetPath)
}

// truncateTranscodeOutput keeps error messages readable for long ffmpeg dumps.
func truncateTranscodeOutput(output []byte) string {
	trimmed := strings.TrimSpace(string(output))
	if len(trimmed) > maxTranscodeOutputLength {
		return trimmed[len(trimmed)-maxTranscodeOutputLength:]
	}

	return trimmed
}
