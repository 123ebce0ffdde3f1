package object

import (
	"context"
	"io"
)

// SaveResult describes an object written by Save.
type SaveResult struct {
	StorageKey string
	SizeBytes  int64
	MimeType   string
	// Replaced reports that an object with the same key existed and was overwritten.
	Replaced bool
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (SaveResult, error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
