// Package storage keeps uploaded document files on the local filesystem,
// organized per user.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chaitanyajadhav1/freightdocbot/pkg/utils"
)

// UploadStore saves uploaded PDFs under baseDir/<userID>/<id>_<name>.
type UploadStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewUploadStore creates an upload store rooted at baseDir.
func NewUploadStore(baseDir string, logger *zap.Logger) (*UploadStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &UploadStore{baseDir: abs, logger: logger}, nil
}

// Save writes an upload and returns its full path. The file name is
// sanitized and prefixed with the document id so repeated uploads of the
// same certificate never collide.
func (s *UploadStore) Save(userID, id, fileName string, content []byte) (string, error) {
	name := fmt.Sprintf("%s_%s", id, utils.SanitizeFileName(fileName))
	fullPath := filepath.Join(s.baseDir, utils.SanitizeFileName(userID), name)

	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create user upload directory",
			zap.String("path", filepath.Dir(fullPath)),
			zap.Error(err))
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write upload",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Debug("Upload saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// Remove deletes a stored upload, tolerating already-missing files.
func (s *UploadStore) Remove(fullPath string) error {
	if err := s.validatePath(fullPath); err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// validatePath rejects anything that escapes the store's base directory.
func (s *UploadStore) validatePath(fullPath string) error {
	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(abs, s.baseDir+string(os.PathSeparator)) {
		return fmt.Errorf("path escapes upload directory: %s", fullPath)
	}
	return nil
}
