package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/storage"
)

// ThumbnailHandler produces downscaled variants of stored images.
type ThumbnailHandler struct {
	fileRepo repository.FileRepository
	storage  storage.Backend
	sizes    []int
	logger   zerolog.Logger
}

// Handle processes a TaskTypeThumbnail task. Entries that are missing,
// not owned by the requesting user, or not images are skipped without retry.
func (h *ThumbnailHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ThumbnailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	entry, err := h.fileRepo.GetByIDAndOwner(ctx, payload.FileID, payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			h.logger.Warn().Str("file_id", payload.FileID).Msg("thumbnail job for unknown file")
			return asynq.SkipRetry
		}
		return fmt.Errorf("load entry: %w", err)
	}

	if entry.Kind != domain.KindImage {
		return nil
	}

	rc, err := h.storage.Open(ctx, entry.LocalPath)
	if err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			return asynq.SkipRetry
		}
		return fmt.Errorf("open content: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		h.logger.Warn().Str("file_id", entry.ID).Err(err).Msg("undecodable image, skipping thumbnails")
		return asynq.SkipRetry
	}

	for _, size := range h.sizes {
		variant := resizeToWidth(src, size)

		var buf bytes.Buffer
		if err := encodeImage(&buf, variant, format); err != nil {
			return fmt.Errorf("encode %d variant: %w", size, err)
		}

		// Write by basename so the backend places the variant next to the
		// original; the resulting path matches VariantPath(entry.LocalPath).
		name := storage.VariantPath(filepath.Base(entry.LocalPath), size)
		if _, err := h.storage.Write(ctx, name, buf.Bytes()); err != nil {
			return fmt.Errorf("write %d variant: %w", size, err)
		}
	}

	h.logger.Info().
		Str("file_id", entry.ID).
		Ints("sizes", h.sizes).
		Msg("thumbnails generated")
	return nil
}

// resizeToWidth scales src to the given width keeping the aspect ratio,
// using nearest-neighbor sampling. Images already narrower are returned as is.
func resizeToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if width <= 0 || srcW <= width {
		return src
	}

	height := srcH * width / srcW
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		sy := bounds.Min.Y + y*srcH/height
		for x := 0; x < width; x++ {
			sx := bounds.Min.X + x*srcW/width
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	}
}
