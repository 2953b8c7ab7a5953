// Package rip implements the playlist rip pipeline: resolving playlist
// references, enumerating tracks, acquiring and decrypting audio streams,
// transcoding them with ffmpeg, and writing metadata tags. Per-track
// failures are recorded and do not stop the run.
package rip
