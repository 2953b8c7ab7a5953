// Package spotify provides a client for the Spotify Web API endpoints
// used by the rip pipeline: playlist track enumeration, single-track
// metadata, and cover-art downloads. Requests are authenticated with
// bearer tokens supplied by a TokenSource.
package spotify
