package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	manualSvc "manuals/internal/domain/services/manual"
)

// LocalStore writes exports below a directory on the local filesystem
type LocalStore struct {
	root string
}

// NewLocalStore creates the directory if needed
func NewLocalStore(root string) (manualSvc.ExportStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Put writes body to root/key and returns the file path
func (s *LocalStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid export key %q", key)
	}

	path := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
