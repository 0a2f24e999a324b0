// Package storage persists uploaded receipt files and hands back the opaque
// reference recorded in the ledger.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// ReceiptStore is the file-storage boundary for receipts.
type ReceiptStore interface {
	// Save persists the receipt and returns its reference.
	Save(ctx context.Context, content []byte, mimeType string) (string, error)

	// Read returns the receipt content for a reference produced by Save.
	Read(ctx context.Context, ref string) ([]byte, error)
}

// LocalReceiptStore stores receipts on the local filesystem under a base
// directory, named by a fresh UUID. The returned reference is the path
// relative to the base directory.
type LocalReceiptStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalReceiptStore creates a receipt store rooted at baseDir.
func NewLocalReceiptStore(baseDir string, logger *zap.Logger) (*LocalReceiptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &LocalReceiptStore{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save writes the receipt bytes and returns the new reference.
func (s *LocalReceiptStore) Save(ctx context.Context, content []byte, mimeType string) (string, error) {
	ext, ok := extensions[mimeType]
	if !ok {
		return "", fmt.Errorf("unsupported receipt type: %s", mimeType)
	}

	ref := uuid.NewString() + ext
	fullPath := filepath.Join(s.baseDir, ref)

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	s.logger.Debug("Receipt saved",
		zap.String("ref", ref),
		zap.Int("size", len(content)))

	return ref, nil
}

// Read returns the stored receipt for the given reference.
func (s *LocalReceiptStore) Read(ctx context.Context, ref string) ([]byte, error) {
	if err := s.validateRef(ref); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.baseDir, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt %s: %w", ref, err)
	}
	return content, nil
}

// validateRef rejects references that would escape the base directory.
func (s *LocalReceiptStore) validateRef(ref string) error {
	cleaned := filepath.Clean(ref)
	if cleaned != ref || strings.Contains(ref, "..") || filepath.IsAbs(ref) {
		return fmt.Errorf("invalid receipt reference: %s", ref)
	}
	return nil
}
