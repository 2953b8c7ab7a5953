package rip

import "errors"

var (
	// ErrInvalidReference indicates that the playlist reference is not recognized.
	ErrInvalidReference = errors.New("invalid playlist reference")
	// ErrFilesystem indicates a local filesystem failure.
	ErrFilesystem = errors.New("filesystem failure")
	// ErrCatalog indicates a catalog API failure.
	ErrCatalog = errors.New("catalog failure")
	// ErrTransport indicates an audio transport failure.
	ErrTransport = errors.New("transport failure")
	// ErrNoAudioSource indicates that no handled encoding is available for a track.
	ErrNoAudioSource = errors.New("no usable audio source")
	// ErrTranscode indicates that the transcoder subprocess failed.
	ErrTranscode = errors.New("transcode failed")
	// ErrTagging indicates a tag write failure.
	ErrTagging = errors.New("tag write failed")
)
