package domain

import (
	"context"
	"io"
)

// FileStore is the port to blob storage for uploaded assets.
type FileStore interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
}

// UploadedFile describes a stored upload.
type UploadedFile struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadService validates and stores uploaded images.
type UploadService interface {
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*UploadedFile, error)
}
