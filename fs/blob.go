// Package fs provides file-based storage for dance images and markdown
// exports.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/scddb"
)

// Ensure BlobStore implements scddb.BlobStore at compile time.
var _ scddb.BlobStore = (*BlobStore)(nil)

// BlobStore keeps downloaded images as files under a base directory.
// Keys are slash-separated relative paths.
type BlobStore struct {
	baseDir string
}

// NewBlobStore creates a BlobStore rooted at baseDir.
func NewBlobStore(baseDir string) *BlobStore {
	return &BlobStore{baseDir: baseDir}
}

// Put writes data to baseDir/key through a temporary file so readers never
// see a partial image. It returns the file path.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".blob-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", err
	}
	return full, nil
}

// cleanKey rejects keys that would escape the base directory.
func cleanKey(key string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", scddb.Errorf(scddb.EINVALID, "invalid blob key %q", key)
	}
	return rel, nil
}
