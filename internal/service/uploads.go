package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"regdesk/internal/dto"
	"regdesk/internal/model"
	"regdesk/internal/storage/blob"
)

const MaxUploadSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error)
	Delete(ctx context.Context, url string) error
}

type Uploads struct {
	store    BlobStore
	maxBytes int64
	log      *zerolog.Logger
}

// NewUploads caps files at maxBytes, or MaxUploadSize when maxBytes is not positive.
func NewUploads(store BlobStore, maxBytes int64, log *zerolog.Logger) *Uploads {
	if maxBytes <= 0 {
		maxBytes = MaxUploadSize
	}
	return &Uploads{store: store, maxBytes: maxBytes, log: log}
}

// Upload checks size and sniffed content type before anything reaches the bucket.
func (s *Uploads) Upload(ctx context.Context, campaignID int64, imageType model.ImageType, filename string, data []byte) (*dto.UploadResponse, Result) {
	if len(data) == 0 {
		return nil, fail(dto.UploadRejected, "No file provided")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fail(dto.UploadRejected, fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxBytes>>20))
	}
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return nil, fail(dto.UploadRejected, "Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed.")
	}
	if imageType == "" {
		imageType = model.ImageGallery
	}
	if !imageType.Valid() {
		return nil, fail(dto.FieldIncorrect, "Unknown image type")
	}

	key := blob.ObjectKey(campaignID, imageType, filename)
	url, err := s.store.Upload(ctx, key, contentType, bytes.NewReader(data))
	if errors.Is(err, blob.ErrNotConfigured) {
		return nil, fail(dto.ServiceUnavailable, "Image storage is not configured")
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to upload image")
		return nil, internal("Failed to upload file")
	}
	s.log.Info().Str("key", key).Int("size", len(data)).Msg("image uploaded")
	return &dto.UploadResponse{URL: url}, ok("File uploaded successfully")
}

func (s *Uploads) Delete(ctx context.Context, url string) Result {
	err := s.store.Delete(ctx, url)
	switch {
	case errors.Is(err, blob.ErrNotConfigured):
		return fail(dto.ServiceUnavailable, "Image storage is not configured")
	case errors.Is(err, blob.ErrForeignURL):
		return fail(dto.UploadRejected, "URL does not point to an uploaded file")
	case err != nil:
		s.log.Error().Err(err).Str("url", url).Msg("failed to delete image")
		return internal("Failed to delete file")
	}
	return ok("File deleted successfully")
}
