package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"venuebooking/internal/domain"
)

// maxUploadSize caps venue images at 5 MiB.
const maxUploadSize = 5 << 20

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type uploadService struct {
	store          domain.FileStore
	contextTimeout time.Duration
}

func NewUploadService(store domain.FileStore, timeout time.Duration) domain.UploadService {
	return &uploadService{store: store, contextTimeout: timeout}
}

// UploadImage stores a venue image under a fresh key and returns its public
// URL. The content type is derived from the file extension, not from what the
// client claims.
func (s *uploadService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*domain.UploadedFile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	if size > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, maxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := imageContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}

	key := "uploads/" + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, ct, body, size)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	return &domain.UploadedFile{Key: key, URL: url}, nil
}
