// Package app provides the main application logic for ripping Spotify playlists.
// It initializes the necessary components, such as the catalog client, streaming
// session, transcoder, and tag writer, and orchestrates the rip process.
package app
