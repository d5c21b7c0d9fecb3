package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUploadValidate(t *testing.T) {
	require.ErrorIs(t, (*Upload)(nil).Validate(), ErrFileRequired)
	require.ErrorIs(t, (&Upload{Content: strings.NewReader(""), Size: 0, ContentType: "image/png"}).Validate(), ErrFileRequired)
	require.ErrorIs(t, (&Upload{Content: strings.NewReader("x"), Size: 1, ContentType: "text/plain"}).Validate(), ErrNotAnImage)
	require.NoError(t, (&Upload{Content: strings.NewReader("x"), Size: 1, ContentType: "IMAGE/JPEG"}).Validate())
}

func TestExtension(t *testing.T) {
	require.Equal(t, ".png", Extension("cat.png"))
	require.Equal(t, ".gz", Extension("archive.tar.gz"))
	require.Equal(t, "", Extension("noext"))
	require.Equal(t, "", Extension("trailing."))
}

func TestLocalImageStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewLocalImageStore(root, "uploads")
	store.now = func() time.Time { return time.UnixMilli(1700000000123) }

	publicPath, err := store.Save(context.Background(), KindProduct, 42, &Upload{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Size:        5,
		Content:     strings.NewReader("bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, "/uploads/products/product-42-1700000000123.jpg", publicPath)

	data, err := os.ReadFile(filepath.Join(root, "products", "product-42-1700000000123.jpg"))
	require.NoError(t, err)
	require.Equal(t, "bytes", string(data))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalImageStoreSaveRemovesPartialFile(t *testing.T) {
	root := t.TempDir()
	store := NewLocalImageStore(root, "uploads")

	_, err := store.Save(context.Background(), KindCategory, 7, &Upload{
		Filename:    "banner.png",
		ContentType: "image/png",
		Size:        10,
		Content:     io.MultiReader(strings.NewReader("part"), failingReader{}),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to store file")

	entries, err := os.ReadDir(filepath.Join(root, "categories"))
	require.NoError(t, err)
	require.Empty(t, entries)
}
