package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/cookbook-app/cookbook-backend/config"
	"github.com/cookbook-app/cookbook-backend/internal/storage/images"
)

// OpenImageStore builds the blob store selected by STORAGE_DRIVER. The
// returned close func releases the underlying client.
func OpenImageStore(ctx context.Context, cfg *config.Config) (images.Store, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		store, err := images.NewS3Store(ctx, images.S3Options{
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			Bucket:    cfg.Storage.Bucket,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil

	case config.StorageDriverGCS:
		var opts []option.ClientOption
		if cfg.Firebase.CredentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("gcs client: %w", err)
		}
		return images.NewGCSStore(client, cfg.Storage.Bucket), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// NewImageService wraps store with the configured URL base and size limit.
func NewImageService(store images.Store, cfg *config.Config) *images.Service {
	baseURL := images.PublicBaseURL(cfg.Storage.PublicBaseURL, cfg.Storage.Bucket)
	if cfg.Storage.Driver == config.StorageDriverS3 && cfg.Storage.PublicBaseURL == "" {
		if cfg.Storage.S3Endpoint != "" {
			baseURL = strings.TrimRight(cfg.Storage.S3Endpoint, "/") + "/" + cfg.Storage.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Storage.Bucket, cfg.Storage.S3Region)
		}
	}
	maxHeight := cfg.Storage.MaxHeight
	if maxHeight < 0 {
		maxHeight = 0
	}
	return images.NewService(store, baseURL, images.Limits{
		MaxHeight: uint(maxHeight),
		MaxPixels: cfg.Storage.MaxPixels,
	})
}
