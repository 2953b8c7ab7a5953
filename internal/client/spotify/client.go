package spotify

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/oshokin/spot-grabber/internal/config"
	http_transport "github.com/oshokin/spot-grabber/internal/transport/http"
	"github.com/oshokin/spot-grabber/internal/utils"
)

// TokenSource supplies bearer tokens for Web API requests.
type TokenSource interface {
	// AccessToken returns a valid access token, refreshing it if necessary.
	AccessToken(ctx context.Context) (string, error)
}

// Client defines the interface for interacting with the Spotify Web API.
type Client interface {
	// ListPlaylistTrackIDs retrieves the IDs of every track in a playlist, in playlist order.
	ListPlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error)
	// GetTrackMetadata retrieves the full metadata of a single track.
	GetTrackMetadata(ctx context.Context, trackID string) (*Track, error)
	// DownloadImage downloads cover art from the specified URL.
	DownloadImage(ctx context.Context, imageURL string) (io.ReadCloser, error)
}

// ClientImpl implements the Client interface for interacting with the Spotify Web API.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the base URL for API requests.
	baseURL string
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// tokens supplies bearer tokens for authenticated requests.
	tokens TokenSource
}

const (
	// apiPlaylistTracksURIFormat is the URI path format for the playlist tracks endpoint.
	apiPlaylistTracksURIFormat = "playlists/%s/tracks"
	// apiTrackURIFormat is the URI path format for the track metadata endpoint.
	apiTrackURIFormat = "tracks/%s"

	// playlistTracksFields limits the playlist listing payload to track IDs and pagination.
	playlistTracksFields = "next,items(track(id))"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
)

// NewClient creates and returns a new instance of ClientImpl.
// It initializes the HTTP client with the provided configuration.
func NewClient(cfg *config.Config, tokens TokenSource) Client {
	// Initialize the HTTP client with custom transport and timeout.
	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
		Timeout: http_transport.DefaultTimeout,
	}

	return &ClientImpl{
		cfg:        cfg,
		baseURL:    cfg.CatalogBaseURL,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// ListPlaylistTrackIDs retrieves the IDs of every track in a playlist, in playlist order.
// The listing is paginated; pages are followed until the API reports no next page.
// Entries without a track ID (removed or local tracks) are dropped.
func (c *ClientImpl) ListPlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	firstPageURL, err := url.JoinPath(c.baseURL, fmt.Sprintf(apiPlaylistTracksURIFormat, playlistID))
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"fields": {playlistTracksFields},
		"market": {c.cfg.Market},
	}
	firstPageURL += "?" + query.Encode()

	var (
		trackIDs []string
		pageURL  = firstPageURL
	)

	for pageURL != "" {
		result, err := fetchJSONFromURL[PlaylistTracksPage](c, ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
		}

		page := result.Data
		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}

			trackIDs = append(trackIDs, item.Track.ID)
		}

		// The API returns an absolute URL for the next page.
		pageURL = page.Next
	}

	return trackIDs, nil
}

// GetTrackMetadata retrieves the full metadata of a single track.
func (c *ClientImpl) GetTrackMetadata(ctx context.Context, trackID string) (*Track, error) {
	query := url.Values{"market": {c.cfg.Market}}

	result, err := fetchJSONWithQuery[Track](c, ctx, fmt.Sprintf(apiTrackURIFormat, trackID), query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track metadata: %w", err)
	}

	return result.Data, nil
}

// DownloadImage downloads cover art from the specified URL.
// Image CDN URLs are pre-signed, so no bearer token is attached.
func (c *ClientImpl) DownloadImage(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return response.Body, nil
}
