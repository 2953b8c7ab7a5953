package rip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/spot-grabber/internal/client/spotify"
	"github.com/oshokin/spot-grabber/internal/logger"
)

// Tagger defines the interface for writing metadata tags to ripped files.
type Tagger interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to a ripped file.
type WriteTagsRequest struct {
	// TrackPath is the file path of the ripped track.
	TrackPath string
	// Format is the output format of the ripped track.
	Format OutputFormat
	// Track is the catalog metadata of the track.
	Track *spotify.Track
	// TrackID is the track's catalog identifier, written as provenance.
	TrackID string
}

// TaggerImpl provides the default implementation of Tagger.
type TaggerImpl struct {
	// catalogClient downloads cover art.
	catalogClient spotify.Client
	// coverCache caches cover art by URL, so a playlist's tracks sharing
	// an album do not re-download the same jacket.
	coverCache *lru.Cache[string, *imageMetadata]
}

// imageMetadata contains image data and its MIME type.
type imageMetadata struct {
	// data contains the raw image bytes.
	data []byte
	// mimeType specifies the image format (e.g., "image/jpeg").
	mimeType string
}

const (
	// coverCacheSize defines the maximum number of cover entries to cache.
	// Playlists rarely span more than a handful of albums at a time.
	coverCacheSize = 16

	// provenanceFrameDescription is the TXXX description of the provenance frame.
	provenanceFrameDescription = "TRACK_URI"

	// provenanceURIPrefix prefixes the track ID in the provenance value.
	provenanceURIPrefix = "spotify:track:"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyTrackPath indicates that the track file path is empty.
	ErrEmptyTrackPath = errors.New("track path cannot be empty")
)

// NewTagger creates a new Tagger instance.
func NewTagger(catalogClient spotify.Client) (Tagger, error) {
	coverCache, err := lru.New[string, *imageMetadata](coverCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover cache: %w", err)
	}

	return &TaggerImpl{
		catalogClient: catalogClient,
		coverCache:    coverCache,
	}, nil
}

// WriteTags writes a fresh tag set to the ripped file.
// Cover art is best-effort: a download failure never fails the track.
func (t *TaggerImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.TrackPath == "" {
		return fmt.Errorf("%w: %w", ErrTagging, ErrEmptyTrackPath)
	}

	image := t.fetchCover(ctx, req.Track.CoverURL())

	var err error
	if req.Format == FormatFLAC {
		err = t.writeFLACTags(req, image)
	} else {
		err = t.writeMP3Tags(req, image)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrTagging, err)
	}

	return nil
}

// fetchCover downloads the cover art, best-effort, caching by URL.
func (t *TaggerImpl) fetchCover(ctx context.Context, coverURL string) *imageMetadata {
	if coverURL == "" {
		return nil
	}

	if cached, ok := t.coverCache.Get(coverURL); ok {
		return cached
	}

	body, err := t.catalogClient.DownloadImage(ctx, coverURL)
	if err != nil {
		logger.Warnf(ctx, "Failed to download cover art: %v", err)

		return nil
	}

	defer body.Close() //nolint:errcheck // Error on close is not critical here.

	data, err := io.ReadAll(body)
	if err != nil {
		logger.Warnf(ctx, "Failed to read cover art: %v", err)

		return nil
	}

	image := &imageMetadata{
		data:     data,
		mimeType: http.DetectContentType(data),
	}

	t.coverCache.Add(coverURL, image)

	return image
}

func (t *TaggerImpl) writeMP3Tags(req *WriteTagsRequest, image *imageMetadata) error {
	// Open the MP3 file for writing metadata.
	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(req.TrackPath, id3v2.Options{Parse: false})
	if err != nil {
		return err
	}

	defer tag.Close() //nolint:errcheck // Error on close is not critical here.

	t.addMP3Tags(tag, req)

	// Embed the cover art into the MP3 file if available.
	if image != nil {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    image.mimeType,
			PictureType: id3v2.PTFrontCover,
			Picture:     image.data,
		})
	}

	return tag.Save()
}

func (t *TaggerImpl) addMP3Tags(tag *id3v2.Tag, req *WriteTagsRequest) {
	track := req.Track

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(track.Name)
	tag.SetArtist(track.ArtistName())
	tag.SetAlbum(track.Album.Name)
	tag.SetYear(releaseYear(track.Album.ReleaseDate))

	if albumArtist := track.AlbumArtistName(); albumArtist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), albumArtist)
	}

	if track.TrackNumber > 0 {
		tag.AddTextFrame(
			tag.CommonID("Track number/Position in set"),
			tag.DefaultEncoding(),
			strconv.Itoa(track.TrackNumber),
		)
	}

	if track.DiscNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Part of a set"), tag.DefaultEncoding(), strconv.Itoa(track.DiscNumber))
	}

	if track.ExternalIDs.ISRC != "" {
		tag.AddTextFrame(tag.CommonID("ISRC"), tag.DefaultEncoding(), track.ExternalIDs.ISRC)
	}

	// Record where the file came from.
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: provenanceFrameDescription,
		Value:       provenanceURIPrefix + req.TrackID,
	})
}

func (t *TaggerImpl) writeFLACTags(req *WriteTagsRequest, image *imageMetadata) error {
	// Parse the FLAC file.
	f, err := flac.ParseFile(filepath.Clean(req.TrackPath))
	if err != nil {
		return err
	}

	// A freshly transcoded file carries no Vorbis comments worth keeping.
	tag := flacvorbis.New()

	if err = t.addFLACTags(tag, req); err != nil {
		return err
	}

	tagMeta := tag.Marshal()
	f.Meta = append(f.Meta, &tagMeta)

	t.embedFLACCover(f, image)

	return f.Save(req.TrackPath)
}

func (t *TaggerImpl) addFLACTags(tag *flacvorbis.MetaDataBlockVorbisComment, req *WriteTagsRequest) error {
	track := req.Track

	flacTags := map[string]string{
		"TITLE":       track.Name,
		"ARTIST":      track.ArtistName(),
		"ALBUMARTIST": track.AlbumArtistName(),
		"ALBUM":       track.Album.Name,
		"DATE":        track.Album.ReleaseDate,
		"YEAR":        releaseYear(track.Album.ReleaseDate),
		"ISRC":        track.ExternalIDs.ISRC,
		provenanceFrameDescription: provenanceURIPrefix + req.TrackID,
	}

	if track.TrackNumber > 0 {
		flacTags["TRACKNUMBER"] = strconv.Itoa(track.TrackNumber)
	}

	if track.DiscNumber > 0 {
		flacTags["DISCNUMBER"] = strconv.Itoa(track.DiscNumber)
	}

	// Add each tag to the Vorbis comment block.
	for k, v := range flacTags {
		if v == "" {
			continue
		}

		if err := tag.Add(k, v); err != nil {
			return err
		}
	}

	return nil
}

func (t *TaggerImpl) embedFLACCover(f *flac.File, image *imageMetadata) {
	if image == nil {
		return
	}

	// Create a new FLAC picture block from the image data.
	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", image.data, image.mimeType)
	if err != nil {
		return
	}

	pictureMeta := picture.Marshal()
	f.Meta = append(f.Meta, &pictureMeta)
}

// releaseYear extracts the year from a release date ("YYYY", "YYYY-MM-DD").
// Unparseable dates yield "0".
func releaseYear(releaseDate string) string {
	if len(releaseDate) >= 4 {
		if year, err := strconv.Atoi(releaseDate[:4]); err == nil {
			return strconv.Itoa(year)
		}
	}

	return "0"
}
