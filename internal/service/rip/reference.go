package rip

import (
	"fmt"
	"regexp"

	"github.com/oshokin/spot-grabber/internal/utils"
)

// canonicalReferencePrefix is the canonical playlist reference prefix.
const canonicalReferencePrefix = "spotify:playlist:"

var (
	// canonicalReferencePattern matches canonical playlist references.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	canonicalReferencePattern = regexp.MustCompile(`^spotify:playlist:(?P<ID>[0-9A-Za-z]+)$`)

	// webLinkReferencePattern matches shared web links, with optional trailing path or query.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	webLinkReferencePattern = regexp.MustCompile(`^https://open\.spotify\.com/playlist/(?P<ID>[0-9A-Za-z]+)(?:[/?].*)?$`)
)

// ResolvePlaylistReference normalizes a playlist reference into canonical form.
// Canonical references pass through unchanged, shared web links are rewritten,
// and anything else is rejected with ErrInvalidReference naming the input.
func ResolvePlaylistReference(reference string) (string, error) {
	if utils.ExtractNamedGroup(canonicalReferencePattern, "ID", reference) != "" {
		return reference, nil
	}

	if playlistID := utils.ExtractNamedGroup(webLinkReferencePattern, "ID", reference); playlistID != "" {
		return canonicalReferencePrefix + playlistID, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrInvalidReference, reference)
}

// PlaylistIDFromReference extracts the playlist ID from a canonical reference.
func PlaylistIDFromReference(reference string) (string, error) {
	playlistID := utils.ExtractNamedGroup(canonicalReferencePattern, "ID", reference)
	if playlistID == "" {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidReference, reference)
	}

	return playlistID, nil
}
