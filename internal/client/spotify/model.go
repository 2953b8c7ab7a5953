package spotify

// FetchJSONResult wraps the decoded response body along with the HTTP status code.
type FetchJSONResult[T any] struct {
	// Data is the decoded response payload.
	Data *T
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// PlaylistTracksPage is one page of a playlist's track listing.
// The listing is requested with fields=next,items(track(id)),
// so only the track IDs and the next-page URL are populated.
type PlaylistTracksPage struct {
	// Items are the playlist entries on this page.
	Items []PlaylistItem `json:"items"`
	// Next is the absolute URL of the next page, empty on the last page.
	Next string `json:"next"`
}

// PlaylistItem is a single playlist entry.
// Its track may be null for removed or local entries.
type PlaylistItem struct {
	Track *PlaylistTrack `json:"track"`
}

// PlaylistTrack carries the track ID of a playlist entry.
type PlaylistTrack struct {
	ID string `json:"id"`
}

// Track is the full metadata of a single track.
type Track struct {
	// ID is the track's catalog identifier.
	ID string `json:"id"`
	// Name is the track title.
	Name string `json:"name"`
	// IsPlayable reports market availability. It is absent from some responses,
	// so a nil value must be treated as playable.
	IsPlayable *bool `json:"is_playable"`
	// DiscNumber is the 1-based disc number.
	DiscNumber int `json:"disc_number"`
	// TrackNumber is the 1-based position on the disc.
	TrackNumber int `json:"track_number"`
	// Album is the album the track belongs to.
	Album Album `json:"album"`
	// Artists are the performing artists in catalog order.
	Artists []Artist `json:"artists"`
	// ExternalIDs holds external identifiers such as the ISRC.
	ExternalIDs ExternalIDs `json:"external_ids"`
}

// Album is the album portion of a track's metadata.
type Album struct {
	// Name is the album title.
	Name string `json:"name"`
	// ReleaseDate is the release date, at least "YYYY".
	ReleaseDate string `json:"release_date"`
	// Images are the cover-art renditions, largest first.
	Images []Image `json:"images"`
	// Artists are the album artists in catalog order.
	Artists []Artist `json:"artists"`
}

// Artist is a single artist reference.
type Artist struct {
	Name string `json:"name"`
}

// Image is a single cover-art rendition.
type Image struct {
	URL string `json:"url"`
}

// ExternalIDs holds external identifiers of a track.
type ExternalIDs struct {
	// ISRC is the International Standard Recording Code, if known.
	ISRC string `json:"isrc"`
}

// AlbumArtistName returns the first album artist, or empty if none is listed.
func (t *Track) AlbumArtistName() string {
	if len(t.Album.Artists) == 0 {
		return ""
	}

	return t.Album.Artists[0].Name
}

// ArtistName returns the first track artist, or empty if none is listed.
func (t *Track) ArtistName() string {
	if len(t.Artists) == 0 {
		return ""
	}

	return t.Artists[0].Name
}

// CoverURL returns the URL of the largest cover-art rendition, or empty if none exists.
func (t *Track) CoverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}

	return t.Album.Images[0].URL
}
