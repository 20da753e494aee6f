package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
	"github.com/andreyxaxa/Event-Attestor/pkg/types/errs"
	"github.com/disintegration/imaging"

	// webp decoder for image.DecodeConfig / imaging.Decode
	_ "golang.org/x/image/webp"
)

const _defaultMaxPixels = 64_000_000

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ImageInspector checks that an upload really is a supported image before any
// external service sees it.
type ImageInspector struct {
	maxPixels int
}

func New(maxPixels int) *ImageInspector {
	if maxPixels <= 0 {
		maxPixels = _defaultMaxPixels
	}

	return &ImageInspector{maxPixels: maxPixels}
}

func (p *ImageInspector) Inspect(ctx context.Context, data []byte) (entity.ImageInfo, error) {
	// 1. Header only: format and dimensions
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.ImageInfo{}, fmt.Errorf("ImageInspector - Inspect - image.DecodeConfig: %w: %v", errs.ErrValidation, err)
	}

	contentType, ok := contentTypes[format]
	if !ok {
		return entity.ImageInfo{}, fmt.Errorf("ImageInspector - Inspect: %w: unsupported image format %q", errs.ErrValidation, format)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > p.maxPixels {
		return entity.ImageInfo{}, fmt.Errorf("ImageInspector - Inspect: %w: image dimensions %dx%d not accepted",
			errs.ErrValidation, cfg.Width, cfg.Height)
	}

	if err = ctx.Err(); err != nil {
		return entity.ImageInfo{}, fmt.Errorf("ImageInspector - Inspect: %w", err)
	}

	// 2. Full decode catches truncated or corrupt pixel data
	_, err = imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.ImageInfo{}, fmt.Errorf("ImageInspector - Inspect - imaging.Decode: %w: %v", errs.ErrValidation, err)
	}

	return entity.ImageInfo{
		Format:      format,
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
