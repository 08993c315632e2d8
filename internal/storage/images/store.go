package images

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedFormat = errors.New("images: unsupported image format")
	ErrImageTooLarge     = errors.New("images: image dimensions too large")
)

// Store is a flat blob store addressed by object key.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	// List returns every key under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
