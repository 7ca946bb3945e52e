package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore implements Store on the local filesystem. Objects are written
// beneath Root and addressed with file:// URLs. Intended for development
// and tests; production deployments use S3Store.
type FSStore struct {
	Root string
}

// NewFSStore creates an FSStore rooted at the given directory.
func NewFSStore(root string) *FSStore {
	return &FSStore{Root: root}
}

// Put writes the object and returns its file:// URL.
func (s *FSStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return "", fmt.Errorf("failed to create store root: %w", err)
	}

	// Strip any path components so callers cannot escape the root.
	path := filepath.Join(s.Root, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve object path: %w", err)
	}
	return "file://" + abs, nil
}
