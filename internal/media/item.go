package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Item is a normalized image ready to be sent to a model.
// MIMEType always starts with "image/".
type Item struct {
	MIMEType string
	Source   Source
}

// Source yields the raw bytes of an image. Implementations may defer I/O
// until Bytes is called.
type Source interface {
	Bytes(ctx context.Context) ([]byte, error)
}

// Resolve loads the item's content and rejects empty images
func (i Item) Resolve(ctx context.Context) ([]byte, error) {
	if i.Source == nil {
		return nil, errors.New("image has no content source")
	}
	data, err := i.Source.Bytes(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("image content is empty")
	}
	return data, nil
}

// BytesSource holds content that is already in memory
type BytesSource []byte

func (b BytesSource) Bytes(context.Context) ([]byte, error) {
	return b, nil
}

// FileSource reads a file from the image library when resolved
type FileSource struct {
	FS   fs.FS
	Name string
}

func (f FileSource) Bytes(context.Context) ([]byte, error) {
	data, err := fs.ReadFile(f.FS, f.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", f.Name, err)
	}
	return data, nil
}

// URLSource downloads the image when resolved
type URLSource struct {
	URL     string
	Fetcher *Fetcher
}

func (u URLSource) Bytes(ctx context.Context) ([]byte, error) {
	return u.Fetcher.FetchBytes(ctx, u.URL)
}
