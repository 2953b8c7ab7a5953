// Package session talks to the streaming-session backend: it exchanges the
// configured session token for short-lived access tokens, lists the audio
// encodings available for a track, fetches per-track key material, and opens
// decrypted audio streams.
package session
