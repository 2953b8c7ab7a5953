package rip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oshokin/spot-grabber/internal/constants"
	"github.com/oshokin/spot-grabber/internal/logger"
	"github.com/oshokin/spot-grabber/internal/session"
)

// tempFilePrefix names the temporary files holding acquired audio.
const tempFilePrefix = "spot-grabber-"

// copyBufferSize is the buffer size for streaming audio to disk.
const copyBufferSize = 128 * 1024

// acquireResult describes a track's audio written to a temporary file.
type acquireResult struct {
	// tempPath is the temporary file holding the plaintext audio.
	tempPath string
	// bytesWritten is the number of audio bytes written.
	bytesWritten int64
	// degraded reports that the stream was saved as served because key
	// material could not be fetched.
	degraded bool
}

// acquireTrackAudio picks the best available encoding, opens the stream,
// and writes it to a uniquely named temporary file.
// A key-material failure is tolerated: the stream is saved as served and
// the result is marked degraded.
func (s *ServiceImpl) acquireTrackAudio(ctx context.Context, trackID string) (*acquireResult, error) {
	encodings, err := s.session.ListEncodings(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	encoding, found := session.PickBestEncoding(encodings)
	if !found {
		return nil, fmt.Errorf("%w: track %s", ErrNoAudioSource, trackID)
	}

	logger.Debugf(ctx, "Acquiring track %s as %s", trackID, encoding)

	key, err := s.session.FetchKey(ctx, trackID, encoding)

	degraded := err != nil
	if degraded {
		logger.Warnf(ctx, "Failed to fetch key material for track %s, saving stream as served: %v", trackID, err)

		key = nil
	}

	stream, err := s.session.OpenStream(ctx, trackID, encoding, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	defer stream.Close() //nolint:errcheck // Error on close is not critical here.

	tempPath := filepath.Join(os.TempDir(), tempFilePrefix+uuid.NewString()+constants.ExtensionOGG)

	written, err := writeStreamToFile(stream, tempPath)
	if err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Debugf(ctx, "Failed to remove temporary file %s: %v", tempPath, removeErr)
		}

		return nil, err
	}

	return &acquireResult{
		tempPath:     tempPath,
		bytesWritten: written,
		degraded:     degraded,
	}, nil
}

// writeStreamToFile copies the stream into a file at path.
// Read failures wrap ErrTransport, write failures wrap ErrFilesystem.
func writeStreamToFile(stream io.Reader, path string) (int64, error) {
	file, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	var written int64

	buffer := make([]byte, copyBufferSize)

	for {
		bytesRead, readErr := stream.Read(buffer)
		if bytesRead > 0 {
			bytesWritten, writeErr := file.Write(buffer[:bytesRead])
			written += int64(bytesWritten)

			if writeErr != nil {
				file.Close() //nolint:errcheck,gosec // Already failing, close error is secondary.

				return written, fmt.Errorf("%w: %w", ErrFilesystem, writeErr)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			file.Close() //nolint:errcheck,gosec // Already failing, close error is secondary.

			return written, fmt.Errorf("%w: %w", ErrTransport, readErr)
		}
	}

	if err = file.Close(); err != nil {
		return written, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}

	return written, nil
}
