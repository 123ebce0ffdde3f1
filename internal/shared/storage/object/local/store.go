package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"claims-intake/internal/shared/storage/object"
)

// Store implements ObjectStore using a flat directory on the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to baseDir/fileName. fileName must already be a
// sanitized base name; an existing file of the same name is overwritten.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (object.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return object.SaveResult{}, err
	}

	fullPath, err := s.resolve(fileName)
	if err != nil {
		return object.SaveResult{}, err
	}
	if strings.ContainsAny(fileName, `/\`) {
		return object.SaveResult{}, fmt.Errorf("invalid file name %q", fileName)
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return object.SaveResult{}, fmt.Errorf("mkdir: %w", err)
	}

	replaced := false
	if _, err := os.Stat(fullPath); err == nil {
		replaced = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return object.SaveResult{}, fmt.Errorf("stat: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.SaveResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return object.SaveResult{}, fmt.Errorf("read sniff: %w", readErr)
	}

	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return object.SaveResult{}, fmt.Errorf("write sniff: %w", err)
		}
		size += int64(n)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		return object.SaveResult{}, fmt.Errorf("write body: %w", err)
	}
	size += written

	if err := f.Close(); err != nil {
		return object.SaveResult{}, fmt.Errorf("close file: %w", err)
	}

	return object.SaveResult{
		StorageKey: fileName,
		SizeBytes:  size,
		MimeType:   mimeType,
		Replaced:   replaced,
	}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SaveWithKey replaces the object at storageKey. The content is staged in a
// temporary file and renamed into place, so readers never see a partial write.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return 0, fmt.Errorf("rename: %w", err)
	}
	return written, nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(storageKey)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
