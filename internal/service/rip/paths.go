package rip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/spot-grabber/internal/client/spotify"
	"github.com/oshokin/spot-grabber/internal/constants"
	"github.com/oshokin/spot-grabber/internal/utils"
)

// unknownArtistName substitutes a missing album artist in output paths.
const unknownArtistName = "Unknown Artist"

// AllocateUniqueDirectory creates a directory at basePath, or at the first
// free "basePath (N)" variant if basePath already exists. The allocated
// directory is never one that existed before the call.
func AllocateUniqueDirectory(basePath string) (string, error) {
	for n := 0; ; n++ {
		candidate := basePath
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)", basePath, n)
		}

		_, err := os.Stat(candidate)
		if err == nil {
			continue
		}

		if !os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %w", ErrFilesystem, err)
		}

		if err = os.MkdirAll(candidate, constants.DefaultFolderPermissions); err != nil {
			return "", fmt.Errorf("%w: %w", ErrFilesystem, err)
		}

		return candidate, nil
	}
}

// BuildTrackPath builds the deterministic output path for a track:
// <rootDir>/<albumArtist>/<album>/<NN> - <name>.<ext>.
// Metadata-derived segments are sanitized for cross-platform filesystems.
func BuildTrackPath(rootDir string, track *spotify.Track, extension string) string {
	albumArtist := track.AlbumArtistName()
	if albumArtist == "" {
		albumArtist = unknownArtistName
	}

	fileName := fmt.Sprintf("%02d - %s", track.TrackNumber, track.Name)
	fileName = utils.SetFileExtension(sanitizePathSegment(fileName), extension, false)

	return filepath.Join(
		rootDir,
		sanitizePathSegment(albumArtist),
		sanitizePathSegment(track.Album.Name),
		fileName,
	)
}

// sanitizePathSegment sanitizes a metadata-derived path segment,
// substituting "_" when nothing survives sanitization.
func sanitizePathSegment(segment string) string {
	sanitized := utils.SanitizeFilename(segment)
	if sanitized == "" {
		return "_"
	}

	return sanitized
}
