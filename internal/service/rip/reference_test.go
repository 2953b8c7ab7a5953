package rip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolvePlaylistReference tests reference normalization.
func TestResolvePlaylistReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reference string
		expected  string
		wantErr   bool
	}{
		{
			name:      "canonical reference passes through",
			reference: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			expected:  "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "web link is rewritten",
			reference: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected:  "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "web link with share query is rewritten",
			reference: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			expected:  "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "web link with trailing slash is rewritten",
			reference: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M/",
			expected:  "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "album URI is rejected",
			reference: "spotify:album:37i9dQZF1DXcBWIGoYBM5M",
			wantErr:   true,
		},
		{
			name:      "album web link is rejected",
			reference: "https://open.spotify.com/album/37i9dQZF1DXcBWIGoYBM5M",
			wantErr:   true,
		},
		{
			name:      "other host is rejected",
			reference: "https://example.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			wantErr:   true,
		},
		{
			name:      "bare ID is rejected",
			reference: "37i9dQZF1DXcBWIGoYBM5M",
			wantErr:   true,
		},
		{
			name:      "empty string is rejected",
			reference: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			canonical, err := ResolvePlaylistReference(tt.reference)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidReference))
				assert.Contains(t, err.Error(), tt.reference)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, canonical)
		})
	}
}

// TestResolvePlaylistReference_Idempotent tests that resolving twice is stable.
func TestResolvePlaylistReference_Idempotent(t *testing.T) {
	t.Parallel()

	canonical, err := ResolvePlaylistReference("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
	require.NoError(t, err)

	again, err := ResolvePlaylistReference(canonical)
	require.NoError(t, err)
	assert.Equal(t, canonical, again)
}

// TestPlaylistIDFromReference tests ID extraction from canonical references.
func TestPlaylistIDFromReference(t *testing.T) {
	t.Parallel()

	playlistID, err := PlaylistIDFromReference("spotify:playlist:37i9dQZF1DXcBWIGoYBM5M")
	require.NoError(t, err)
	assert.Equal(t, "37i9dQZF1DXcBWIGoYBM5M", playlistID)

	_, err = PlaylistIDFromReference("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidReference))
}
