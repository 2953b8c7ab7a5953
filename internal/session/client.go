package session

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oshokin/spot-grabber/internal/config"
	"github.com/oshokin/spot-grabber/internal/constants"
	"github.com/oshokin/spot-grabber/internal/logger"
	http_transport "github.com/oshokin/spot-grabber/internal/transport/http"
	"github.com/oshokin/spot-grabber/internal/utils"
)

// ClientImpl implements the Session interface against the streaming-session HTTP API.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the base URL for session API requests.
	baseURL string
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client

	// tokenMutex guards the cached access token.
	tokenMutex sync.Mutex
	// cachedToken is the current access token, empty when none is cached.
	cachedToken string
	// tokenExpiresAt is the expiry time of the cached access token.
	tokenExpiresAt time.Time
}

const (
	// sessionAPITokenURI is the URI path for the token exchange endpoint.
	sessionAPITokenURI = "v1/token"
	// sessionAPIFilesURIFormat is the URI path format for the track files endpoint.
	sessionAPIFilesURIFormat = "v1/tracks/%s/files"
	// sessionAPIKeyURIFormat is the URI path format for the track key endpoint.
	sessionAPIKeyURIFormat = "v1/tracks/%s/key"

	// sessionTokenHeader carries the long-lived session token on token exchanges.
	sessionTokenHeader = "X-Session-Token"

	// tokenExpiryMargin refreshes access tokens slightly before the backend expires them.
	tokenExpiryMargin = 30 * time.Second

	// cacheDirName is the subdirectory under the user cache directory.
	cacheDirName = "spot-grabber"
	// credentialsFilename is the name of the cached credentials file.
	credentialsFilename = "credentials.json"
)

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrEncodingNotOffered indicates that the requested encoding is not offered for the track.
	ErrEncodingNotOffered = errors.New("encoding not offered for track")
)

// tokenResponse is the token exchange payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// trackFilesResponse lists the files available for a track.
type trackFilesResponse struct {
	Files []trackFile `json:"files"`
}

// trackFile is a single downloadable rendition of a track.
type trackFile struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

// keyResponse is the key material payload, hex-encoded.
type keyResponse struct {
	Key string `json:"key"`
	IV  string `json:"iv"`
}

// cachedCredentials is the on-disk shape of the credentials cache.
type cachedCredentials struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewClient creates and returns a new instance of ClientImpl.
// Cached credentials are removed first if the configuration requests it,
// otherwise they are loaded so a still-valid token survives restarts.
func NewClient(ctx context.Context, cfg *config.Config) (Session, error) {
	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
		Timeout: http_transport.DefaultTimeout,
	}

	client := &ClientImpl{
		cfg:        cfg,
		baseURL:    cfg.SessionBaseURL,
		httpClient: httpClient,
	}

	if cfg.ClearCredentials {
		if err := client.clearCachedCredentials(); err != nil {
			return nil, err
		}

		logger.Debug(ctx, "Cached credentials cleared")
	} else {
		client.loadCachedCredentials(ctx)
	}

	return client, nil
}

// AccessToken returns a valid Web API access token, refreshing it if necessary.
func (c *ClientImpl) AccessToken(ctx context.Context) (string, error) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()

	if c.cachedToken != "" && time.Now().Before(c.tokenExpiresAt.Add(-tokenExpiryMargin)) {
		return c.cachedToken, nil
	}

	route, err := url.JoinPath(c.baseURL, sessionAPITokenURI)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route, http.NoBody)
	if err != nil {
		return "", err
	}

	request.Header.Set(sessionTokenHeader, c.cfg.SessionToken)

	var token tokenResponse
	if err = c.doJSON(request, &token); err != nil {
		return "", fmt.Errorf("failed to exchange session token: %w", err)
	}

	c.cachedToken = token.AccessToken
	c.tokenExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	c.saveCachedCredentials(ctx)

	return c.cachedToken, nil
}

// ListEncodings lists the audio encodings available for a track.
// Encodings this tool does not handle are dropped from the result.
func (c *ClientImpl) ListEncodings(ctx context.Context, trackID string) ([]Encoding, error) {
	files, err := c.fetchTrackFiles(ctx, trackID)
	if err != nil {
		return nil, err
	}

	candidates := utils.Map(files, func(file trackFile) Encoding {
		return ParseEncoding(file.Format)
	})

	var encodings []Encoding

	for i, encoding := range candidates {
		if encoding == EncodingUnknown {
			logger.Debugf(ctx, "Skipping unhandled encoding '%s' for track %s", files[i].Format, trackID)

			continue
		}

		encodings = append(encodings, encoding)
	}

	return encodings, nil
}

// FetchKey retrieves the key material protecting a track's stream in the given encoding.
func (c *ClientImpl) FetchKey(ctx context.Context, trackID string, encoding Encoding) (*KeyMaterial, error) {
	route, err := url.JoinPath(c.baseURL, fmt.Sprintf(sessionAPIKeyURIFormat, trackID))
	if err != nil {
		return nil, err
	}

	query := url.Values{"format": {encoding.String()}}
	route += "?" + query.Encode()

	request, err := c.newAuthorizedRequest(ctx, route)
	if err != nil {
		return nil, err
	}

	var payload keyResponse
	if err = c.doJSON(request, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch key material: %w", err)
	}

	key, err := hex.DecodeString(payload.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key: %w", ErrInvalidKeyMaterial, err)
	}

	iv, err := hex.DecodeString(payload.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed IV: %w", ErrInvalidKeyMaterial, err)
	}

	return &KeyMaterial{Key: key, IV: iv}, nil
}

// OpenStream opens the track's audio stream in the given encoding.
// If key material is provided, the returned stream yields plaintext audio.
func (c *ClientImpl) OpenStream(
	ctx context.Context,
	trackID string,
	encoding Encoding,
	key *KeyMaterial,
) (io.ReadCloser, error) {
	files, err := c.fetchTrackFiles(ctx, trackID)
	if err != nil {
		return nil, err
	}

	var streamURL string

	for _, file := range files {
		if ParseEncoding(file.Format) == encoding {
			streamURL = file.URL

			break
		}
	}

	if streamURL == "" {
		return nil, fmt.Errorf("%w: %s for track %s", ErrEncodingNotOffered, encoding, trackID)
	}

	request, err := c.newAuthorizedRequest(ctx, streamURL)
	if err != nil {
		return nil, err
	}

	// Request partial content so range-only CDNs answer as well.
	request.Header.Add("Range", "bytes=0-")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusPartialContent {
		response.Body.Close() //nolint:gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	if key == nil {
		return response.Body, nil
	}

	decrypted, err := newDecryptingReadCloser(response.Body, key)
	if err != nil {
		response.Body.Close() //nolint:gosec // Error on close is not critical here.

		return nil, err
	}

	return decrypted, nil
}

// fetchTrackFiles retrieves the file listing for a track.
func (c *ClientImpl) fetchTrackFiles(ctx context.Context, trackID string) ([]trackFile, error) {
	route, err := url.JoinPath(c.baseURL, fmt.Sprintf(sessionAPIFilesURIFormat, trackID))
	if err != nil {
		return nil, err
	}

	request, err := c.newAuthorizedRequest(ctx, route)
	if err != nil {
		return nil, err
	}

	var payload trackFilesResponse
	if err = c.doJSON(request, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch track files: %w", err)
	}

	return payload.Files, nil
}

// newAuthorizedRequest builds a GET request carrying a bearer access token.
func (c *ClientImpl) newAuthorizedRequest(ctx context.Context, requestURL string) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Authorization", "Bearer "+token)

	return request, nil
}

// doJSON executes the request and decodes a JSON response into target.
func (c *ClientImpl) doJSON(request *http.Request, target any) error {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return json.NewDecoder(response.Body).Decode(target)
}

// credentialsCachePath returns the path of the credentials cache file.
func credentialsCachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cacheDir, cacheDirName, credentialsFilename), nil
}

// clearCachedCredentials removes the credentials cache file if it exists.
func (c *ClientImpl) clearCachedCredentials() error {
	path, err := credentialsCachePath()
	if err != nil {
		return fmt.Errorf("failed to locate credentials cache: %w", err)
	}

	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials cache: %w", err)
	}

	return nil
}

// loadCachedCredentials restores a still-valid access token from disk, best-effort.
func (c *ClientImpl) loadCachedCredentials(ctx context.Context) {
	path, err := credentialsCachePath()
	if err != nil {
		return
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return
	}

	var credentials cachedCredentials
	if err = json.Unmarshal(content, &credentials); err != nil {
		logger.Debugf(ctx, "Ignoring malformed credentials cache: %v", err)

		return
	}

	if credentials.AccessToken == "" || !time.Now().Before(credentials.ExpiresAt.Add(-tokenExpiryMargin)) {
		return
	}

	c.cachedToken = credentials.AccessToken
	c.tokenExpiresAt = credentials.ExpiresAt
}

// saveCachedCredentials persists the current access token to disk, best-effort.
// The caller must hold tokenMutex.
func (c *ClientImpl) saveCachedCredentials(ctx context.Context) {
	path, err := credentialsCachePath()
	if err != nil {
		return
	}

	if err = os.MkdirAll(filepath.Dir(path), constants.DefaultFolderPermissions); err != nil {
		logger.Debugf(ctx, "Failed to create credentials cache directory: %v", err)

		return
	}

	content, err := json.Marshal(cachedCredentials{
		AccessToken: c.cachedToken,
		ExpiresAt:   c.tokenExpiresAt,
	})
	if err != nil {
		return
	}

	if err = os.WriteFile(path, content, constants.DefaultFilePermissions); err != nil {
		logger.Debugf(ctx, "Failed to write credentials cache: %v", err)
	}
}
