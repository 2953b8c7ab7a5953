package rip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/spot-grabber/internal/client/spotify"
)

// TestAllocateUniqueDirectory tests the "(N)" probing behavior.
func TestAllocateUniqueDirectory(t *testing.T) {
	t.Parallel()

	basePath := filepath.Join(t.TempDir(), "rips")

	first, err := AllocateUniqueDirectory(basePath)
	require.NoError(t, err)
	assert.Equal(t, basePath, first)
	assert.DirExists(t, first)

	second, err := AllocateUniqueDirectory(basePath)
	require.NoError(t, err)
	assert.Equal(t, basePath+" (1)", second)
	assert.DirExists(t, second)

	third, err := AllocateUniqueDirectory(basePath)
	require.NoError(t, err)
	assert.Equal(t, basePath+" (2)", third)
	assert.DirExists(t, third)
}

// TestAllocateUniqueDirectory_SkipsOccupiedVariants tests probing over pre-existing variants.
func TestAllocateUniqueDirectory_SkipsOccupiedVariants(t *testing.T) {
	t.Parallel()

	basePath := filepath.Join(t.TempDir(), "rips")

	require.NoError(t, os.MkdirAll(basePath, 0o755))
	require.NoError(t, os.MkdirAll(basePath+" (1)", 0o755))

	allocated, err := AllocateUniqueDirectory(basePath)
	require.NoError(t, err)
	assert.Equal(t, basePath+" (2)", allocated)
}

// TestAllocateUniqueDirectory_CreatesParents tests that missing parents are created.
func TestAllocateUniqueDirectory_CreatesParents(t *testing.T) {
	t.Parallel()

	basePath := filepath.Join(t.TempDir(), "deeply", "nested", "rips")

	allocated, err := AllocateUniqueDirectory(basePath)
	require.NoError(t, err)
	assert.Equal(t, basePath, allocated)
	assert.DirExists(t, allocated)
}

func testTrack() *spotify.Track {
	return &spotify.Track{
		ID:          "t1",
		Name:        "Night Drive",
		TrackNumber: 7,
		DiscNumber:  1,
		Album: spotify.Album{
			Name:        "City Lights",
			ReleaseDate: "1999-04-13",
			Artists:     []spotify.Artist{{Name: "The Streetlights"}},
		},
		Artists: []spotify.Artist{{Name: "The Streetlights"}},
	}
}

// TestBuildTrackPath tests output path construction.
func TestBuildTrackPath(t *testing.T) {
	t.Parallel()

	path := BuildTrackPath("/music", testTrack(), ".mp3")
	assert.Equal(t, filepath.Join("/music", "The Streetlights", "City Lights", "07 - Night Drive.mp3"), path)
}

// TestBuildTrackPath_UnknownArtist tests the fallback for missing album artists.
func TestBuildTrackPath_UnknownArtist(t *testing.T) {
	t.Parallel()

	track := testTrack()
	track.Album.Artists = nil

	path := BuildTrackPath("/music", track, ".mp3")
	assert.Equal(t, filepath.Join("/music", "Unknown Artist", "City Lights", "07 - Night Drive.mp3"), path)
}

// TestBuildTrackPath_SanitizesSegments tests sanitization of metadata-derived segments.
func TestBuildTrackPath_SanitizesSegments(t *testing.T) {
	t.Parallel()

	track := testTrack()
	track.Album.Artists = []spotify.Artist{{Name: "AC/DC"}}
	track.Album.Name = "Back In Black?"
	track.Name = `Hells "Bells"`
	track.TrackNumber = 2

	path := BuildTrackPath("/music", track, ".flac")
	assert.Equal(t, filepath.Join("/music", "AC_DC", "Back In Black_", "02 - Hells _Bells_.flac"), path)
}

// TestBuildTrackPath_EmptyAlbum tests that a fully sanitized-away album becomes "_".
func TestBuildTrackPath_EmptyAlbum(t *testing.T) {
	t.Parallel()

	track := testTrack()
	track.Album.Name = ""

	path := BuildTrackPath("/music", track, ".mp3")
	assert.Equal(t, filepath.Join("/music", "The Streetlights", "_", "07 - Night Drive.mp3"), path)
}
