package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badgeforge/badgeforge-core/pkg/store"
)

func TestFSStorePut(t *testing.T) {
	root := t.TempDir()
	s := store.NewFSStore(root)

	url, err := s.Put(context.Background(), "badge-1.png", []byte("png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))

	data, err := os.ReadFile(filepath.Join(root, "badge-1.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)
}

func TestFSStoreStripsPathComponents(t *testing.T) {
	root := t.TempDir()
	s := store.NewFSStore(root)

	_, err := s.Put(context.Background(), "../escape.png", []byte("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "escape.png"))
	assert.NoError(t, err, "object must land inside the store root")
}

func TestFSStoreCancelledContext(t *testing.T) {
	s := store.NewFSStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, "badge.png", []byte("x"))
	assert.Error(t, err)
}
