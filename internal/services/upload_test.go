package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/domain"
)

// fakeFileStore implements domain.FileStore for tests.
type fakeFileStore struct {
	putKey         string
	putContentType string
	putSize        int64
	err            error
}

func (f *fakeFileStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.putKey = key
	f.putContentType = contentType
	f.putSize = size
	return "https://cdn.example.com/" + key, nil
}

func TestUploadService_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("jpeg upload", func(t *testing.T) {
		store := &fakeFileStore{}
		svc := NewUploadService(store, time.Second)

		body := strings.NewReader("fake image bytes")
		file, err := svc.UploadImage(ctx, "hall.JPG", "application/octet-stream", body, int64(body.Len()))
		require.NoError(t, err)
		require.NotNil(t, file)
		assert.True(t, strings.HasPrefix(file.Key, "uploads/"))
		assert.True(t, strings.HasSuffix(file.Key, ".jpg"), "extension is lowercased")
		assert.Equal(t, "https://cdn.example.com/"+file.Key, file.URL)
		assert.Equal(t, "image/jpeg", store.putContentType, "content type comes from the extension")
	})

	t.Run("png upload", func(t *testing.T) {
		store := &fakeFileStore{}
		svc := NewUploadService(store, time.Second)

		file, err := svc.UploadImage(ctx, "floorplan.png", "image/png", strings.NewReader("png"), 3)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(file.Key, ".png"))
		assert.Equal(t, "image/png", store.putContentType)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		svc := NewUploadService(&fakeFileStore{}, time.Second)

		_, err := svc.UploadImage(ctx, "malware.exe", "application/octet-stream", strings.NewReader("x"), 1)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no extension", func(t *testing.T) {
		svc := NewUploadService(&fakeFileStore{}, time.Second)

		_, err := svc.UploadImage(ctx, "image", "image/jpeg", strings.NewReader("x"), 1)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty file", func(t *testing.T) {
		svc := NewUploadService(&fakeFileStore{}, time.Second)

		_, err := svc.UploadImage(ctx, "hall.jpg", "image/jpeg", strings.NewReader(""), 0)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("file too large", func(t *testing.T) {
		svc := NewUploadService(&fakeFileStore{}, time.Second)

		_, err := svc.UploadImage(ctx, "hall.jpg", "image/jpeg", strings.NewReader("x"), maxUploadSize+1)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := NewUploadService(&fakeFileStore{err: errors.New("s3 unreachable")}, time.Second)

		_, err := svc.UploadImage(ctx, "hall.jpg", "image/jpeg", strings.NewReader("x"), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store file")
	})

	t.Run("fresh key per upload", func(t *testing.T) {
		store := &fakeFileStore{}
		svc := NewUploadService(store, time.Second)

		first, err := svc.UploadImage(ctx, "hall.jpg", "image/jpeg", strings.NewReader("x"), 1)
		require.NoError(t, err)
		second, err := svc.UploadImage(ctx, "hall.jpg", "image/jpeg", strings.NewReader("x"), 1)
		require.NoError(t, err)
		assert.NotEqual(t, first.Key, second.Key)
	})
}
