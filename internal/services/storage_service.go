package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/storyboard/backend/internal/config"
)

// StorageService stores uploaded asset files on local disk. Files are served
// back under /uploads by the HTTP layer.
type StorageService struct {
	cfg *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	_ = os.MkdirAll(cfg.UploadsPath, 0o755)
	return &StorageService{cfg: cfg}
}

// BuildObjectKey creates a project-namespaced storage key for an upload.
func (s *StorageService) BuildObjectKey(projectID, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%s%s", projectID, uuid.New().String(), ext)
}

// SaveStream writes an incoming stream to local storage and returns the
// absolute path, size and sha256 checksum. The write is atomic: data lands in
// a .part file that is renamed into place only when complete.
func (s *StorageService) SaveStream(ctx context.Context, key string, r io.Reader) (string, int64, string, error) {
	absPath := filepath.Join(s.cfg.UploadsPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", 0, "", err
	}

	tmp := absPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", 0, "", err
	}
	defer f.Close()

	hasher := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, hasher), r)
	if err != nil {
		_ = os.Remove(tmp)
		return "", 0, "", err
	}

	if err := f.Sync(); err != nil {
		_ = os.Remove(tmp)
		return "", 0, "", err
	}

	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return "", 0, "", err
	}

	checksum := hex.EncodeToString(hasher.Sum(nil))
	return absPath, n, checksum, nil
}

// AbsolutePath resolves a storage key to its on-disk location.
func (s *StorageService) AbsolutePath(key string) string {
	return filepath.Join(s.cfg.UploadsPath, filepath.FromSlash(key))
}

// Remove deletes a stored file. Missing files are not an error.
func (s *StorageService) Remove(key string) error {
	err := os.Remove(s.AbsolutePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
