package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	ContentTypeJPEG = "image/jpeg"
	jpegQuality     = 85

	// DefaultMaxPixels caps width*height of an accepted upload (about 40 MP).
	DefaultMaxPixels = 40_000_000
)

// Limits bounds what Normalize accepts and produces.
type Limits struct {
	// MaxHeight is the output height cap; 0 keeps the original height.
	MaxHeight uint
	// MaxPixels caps the declared input dimensions; 0 uses DefaultMaxPixels.
	MaxPixels int
}

// Normalize decodes a jpeg or png image, scales it down to at most
// limits.MaxHeight pixels tall keeping the aspect ratio, and re-encodes it as
// jpeg. The header is checked against limits.MaxPixels before any pixel data
// is decoded.
func Normalize(data []byte, limits Limits) ([]byte, error) {
	maxPixels := limits.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	if limits.MaxHeight > 0 && uint(img.Bounds().Dy()) > limits.MaxHeight {
		// width 0 keeps the aspect ratio
		img = resize.Resize(0, limits.MaxHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("images: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
