package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface is the backend for penalty evidence images. The
// mock backend stores files on the local filesystem and serves them
// through the HTTP surface; a cloud backend would return real
// presigned URLs.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client PUTs the
	// image to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a URL the image can be
	// fetched from.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size.
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage.
	DeleteFile(ctx context.Context, key string) error

	// SaveFile and ReadFile back the mock upload/download handlers;
	// cloud backends do not need them.
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
