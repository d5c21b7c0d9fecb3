// Package storage keeps uploaded catalog images on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrFileRequired = errors.New("File is required")
	ErrNotAnImage   = errors.New("File must be an image")
)

// Kind selects the folder and filename prefix for an upload.
type Kind struct {
	Folder string
	Prefix string
}

var (
	KindProduct  = Kind{Folder: "products", Prefix: "product"}
	KindCategory = Kind{Folder: "categories", Prefix: "category"}
)

// Upload is a single multipart file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Validate applies the presence and image content-type checks.
func (u *Upload) Validate() error {
	if u == nil || u.Content == nil || u.Size <= 0 {
		return ErrFileRequired
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(u.ContentType)), "image/") {
		return ErrNotAnImage
	}
	return nil
}

// ImageStore persists an image and returns its public path.
type ImageStore interface {
	Save(ctx context.Context, kind Kind, ownerID int64, upload *Upload) (string, error)
}

// LocalImageStore writes under Root and serves paths below PublicPrefix.
type LocalImageStore struct {
	Root         string
	PublicPrefix string
	now          func() time.Time
}

func NewLocalImageStore(root, publicPrefix string) *LocalImageStore {
	if strings.TrimSpace(root) == "" {
		root = "uploads"
	}
	if strings.TrimSpace(publicPrefix) == "" {
		publicPrefix = "/uploads"
	}
	return &LocalImageStore{Root: root, PublicPrefix: "/" + strings.Trim(publicPrefix, "/"), now: time.Now}
}

// Save stores the file as {folder}/{prefix}-{ownerID}-{epochMillis}{ext}.
func (s *LocalImageStore) Save(ctx context.Context, kind Kind, ownerID int64, upload *Upload) (string, error) {
	if err := upload.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(s.Root, kind.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("Failed to store file: %w", err)
	}
	filename := fmt.Sprintf("%s-%d-%d%s", kind.Prefix, ownerID, s.now().UnixMilli(), Extension(upload.Filename))
	fullPath := filepath.Join(dir, filename)
	target, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("Failed to store file: %w", err)
	}
	if _, err := io.Copy(target, upload.Content); err != nil {
		_ = target.Close()
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("Failed to store file: %w", err)
	}
	if err := target.Close(); err != nil {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("Failed to store file: %w", err)
	}
	return path.Join(s.PublicPrefix, kind.Folder, filename), nil
}

// Extension returns the suffix from the last dot, or "" when there is none
// or the dot is the final character.
func Extension(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))
	dot := strings.LastIndex(filename, ".")
	if dot < 0 || dot == len(filename)-1 {
		return ""
	}
	return filename[dot:]
}
