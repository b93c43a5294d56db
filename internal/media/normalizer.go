package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/lehigh-university-libraries/imagelens/internal/models"
)

const (
	msgEmptyFileName   = "File name cannot be empty."
	msgEmptyUploads    = "Image files list cannot be empty."
	msgEmptyURLs       = "Image URL list cannot be empty."
	msgEmptyBase64     = "Base64 image list cannot be empty."
	msgEmptyBase64Item = "Base64 image data and MIME type cannot be empty."
	msgInvalidBase64   = "Invalid Base64 data provided."
)

// Upload is a single uploaded file as received from a multipart form
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Normalizer converts every supported input kind into Items
type Normalizer struct {
	library     fs.FS
	libraryName string
	fetcher     *Fetcher
}

// NewNormalizer creates a normalizer. library is the image library root and
// libraryName is how that root is referred to in error messages.
func NewNormalizer(library fs.FS, libraryName string, fetcher *Fetcher) *Normalizer {
	if fetcher == nil {
		fetcher = NewFetcher(DefaultConnectTimeout, DefaultReadTimeout)
	}
	return &Normalizer{
		library:     library,
		libraryName: libraryName,
		fetcher:     fetcher,
	}
}

// FromLibrary resolves a bare file name against the image library.
// Library images are always sent as JPEG.
func (n *Normalizer) FromLibrary(fileName string) (Item, error) {
	if strings.TrimSpace(fileName) == "" {
		return Item{}, models.NewProcessingError(msgEmptyFileName, nil)
	}

	notFound := models.NewProcessingError("File not found in image library: "+path.Join(n.libraryName, fileName), nil)
	if n.library == nil || !fs.ValidPath(fileName) {
		return Item{}, notFound
	}
	info, err := fs.Stat(n.library, fileName)
	if err != nil || info.IsDir() {
		return Item{}, notFound
	}

	return Item{
		MIMEType: MIMETypeJPEG,
		Source:   FileSource{FS: n.library, Name: fileName},
	}, nil
}

// FromUploads converts uploaded files, skipping empty ones
func (n *Normalizer) FromUploads(uploads []Upload) ([]Item, error) {
	items := make([]Item, 0, len(uploads))
	for _, u := range uploads {
		if len(u.Data) == 0 {
			slog.Debug("Skipping empty upload", "filename", u.Filename)
			continue
		}
		items = append(items, Item{
			MIMEType: UploadMIMEType(u.ContentType),
			Source:   BytesSource(u.Data),
		})
	}

	if len(items) == 0 {
		return nil, models.NewProcessingError(msgEmptyUploads, nil)
	}
	return items, nil
}

// FromURLs checks that every URL serves an image. The whole batch fails on
// the first bad URL.
func (n *Normalizer) FromURLs(ctx context.Context, urls []string) ([]Item, error) {
	if len(urls) == 0 {
		return nil, models.NewProcessingError(msgEmptyURLs, nil)
	}

	items := make([]Item, 0, len(urls))
	for _, u := range urls {
		item, err := n.fromURL(ctx, u)
		if err != nil {
			return nil, models.NewProcessingError("Failed to download or process image from URL: "+u, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (n *Normalizer) fromURL(ctx context.Context, rawURL string) (Item, error) {
	contentType, err := n.fetcher.ContentType(ctx, rawURL)
	if err != nil {
		return Item{}, err
	}
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		return Item{}, fmt.Errorf("invalid or non-image MIME type %q", contentType)
	}

	mimeType, err := parseImageType(contentType)
	if err != nil {
		return Item{}, err
	}

	return Item{
		MIMEType: mimeType,
		Source:   URLSource{URL: rawURL, Fetcher: n.fetcher},
	}, nil
}

// FromBase64 decodes every image. The whole batch fails on the first bad item.
func (n *Normalizer) FromBase64(images []models.Base64Image) ([]Item, error) {
	if len(images) == 0 {
		return nil, models.NewProcessingError(msgEmptyBase64, nil)
	}

	items := make([]Item, 0, len(images))
	for _, img := range images {
		item, err := fromBase64(img)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func fromBase64(img models.Base64Image) (Item, error) {
	if strings.TrimSpace(img.MIMEType) == "" || strings.TrimSpace(img.Data) == "" {
		return Item{}, models.NewProcessingError(msgEmptyBase64Item, nil)
	}

	mimeType, err := parseImageType(img.MIMEType)
	if err != nil {
		return Item{}, models.NewProcessingError("Invalid MIME type provided: "+img.MIMEType, err)
	}

	data, err := decodeBase64(img.Data)
	if err != nil {
		return Item{}, models.NewProcessingError(msgInvalidBase64, err)
	}
	if len(data) == 0 {
		return Item{}, models.NewProcessingError(msgInvalidBase64, errors.New("decoded image is empty"))
	}

	return Item{MIMEType: mimeType, Source: BytesSource(data)}, nil
}

// decodeBase64 decodes standard Base64. Trailing padding is optional.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
