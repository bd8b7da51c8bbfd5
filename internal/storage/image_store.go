package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrUnavailable is returned when the backing directory cannot be created
// or written to.
var ErrUnavailable = errors.New("image storage unavailable")

// ImageStore persists uploaded files on the filesystem under generated
// names and hands back the generated name as a stable reference. Bytes are
// stored verbatim; no transformation is applied.
type ImageStore struct {
	dir string
}

// NewImageStore creates an ImageStore rooted at dir. The directory itself
// is created lazily on first store.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{
		dir: dir,
	}
}

// Dir returns the backing directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Store writes the file contents under a generated name and returns that
// name. Names combine a nanosecond timestamp with the original filename,
// and the file is opened exclusively, so a concurrent upload with the same
// original name can never overwrite an earlier one.
func (s *ImageStore) Store(r io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(originalName))
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return name, nil
}
