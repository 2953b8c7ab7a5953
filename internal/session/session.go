package session

//go:generate $MOCKGEN -source=session.go -destination=mocks/session_mock.go

import (
	"context"
	"io"
)

// Encoding identifies an audio encoding offered by the streaming backend.
type Encoding uint8

// Supported encodings, ordered by bitrate.
const (
	// EncodingUnknown is an encoding this tool does not handle.
	EncodingUnknown Encoding = iota
	// EncodingOGGVorbis96 is OGG Vorbis at ~96 kbps.
	EncodingOGGVorbis96
	// EncodingOGGVorbis160 is OGG Vorbis at ~160 kbps.
	EncodingOGGVorbis160
	// EncodingOGGVorbis320 is OGG Vorbis at ~320 kbps.
	EncodingOGGVorbis320
)

// encodingNames maps encodings to their wire names.
//
//nolint:gochecknoglobals // This is an immutable map used as a constant.
var encodingNames = map[Encoding]string{
	EncodingOGGVorbis96:  "OGG_VORBIS_96",
	EncodingOGGVorbis160: "OGG_VORBIS_160",
	EncodingOGGVorbis320: "OGG_VORBIS_320",
}

// encodingPreferenceOrder lists handled encodings from best to worst.
//
//nolint:gochecknoglobals // This is an immutable slice used as a constant.
var encodingPreferenceOrder = []Encoding{
	EncodingOGGVorbis320,
	EncodingOGGVorbis160,
	EncodingOGGVorbis96,
}

// String returns the wire name of the encoding.
func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}

	return "UNKNOWN"
}

// ParseEncoding converts a wire name into an Encoding.
// Unhandled names map to EncodingUnknown.
func ParseEncoding(name string) Encoding {
	for encoding, encodingName := range encodingNames {
		if encodingName == name {
			return encoding
		}
	}

	return EncodingUnknown
}

// PickBestEncoding returns the highest-bitrate handled encoding from the
// available list. The second return value is false when none is handled.
func PickBestEncoding(available []Encoding) (Encoding, bool) {
	for _, preferred := range encodingPreferenceOrder {
		for _, candidate := range available {
			if candidate == preferred {
				return preferred, true
			}
		}
	}

	return EncodingUnknown, false
}

// KeyMaterial holds the symmetric key and IV protecting a track's audio stream.
type KeyMaterial struct {
	// Key is the AES-128 key.
	Key []byte
	// IV is the initial counter block.
	IV []byte
}

// Session defines the capabilities the rip pipeline needs from the streaming backend.
type Session interface {
	// AccessToken returns a valid Web API access token, refreshing it if necessary.
	AccessToken(ctx context.Context) (string, error)
	// ListEncodings lists the audio encodings available for a track.
	ListEncodings(ctx context.Context, trackID string) ([]Encoding, error)
	// FetchKey retrieves the key material protecting a track's stream in the given encoding.
	FetchKey(ctx context.Context, trackID string, encoding Encoding) (*KeyMaterial, error)
	// OpenStream opens the track's audio stream in the given encoding.
	// If key material is provided, the returned stream yields plaintext audio.
	// A nil key returns the raw stream as served.
	OpenStream(ctx context.Context, trackID string, encoding Encoding, key *KeyMaterial) (io.ReadCloser, error)
}
