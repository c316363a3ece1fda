package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/storyboard/backend/internal/config"
	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
)

// uploadsURLPrefix is the public path under which locally stored files are
// served; asset URLs carrying it own a file on disk.
const uploadsURLPrefix = "/uploads/"

// CreateAssetInput registers an asset from metadata the storage backend
// already produced.
type CreateAssetInput struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	MimeType  string `json:"type"`
	SizeBytes int64  `json:"size"`
}

// UpdateAssetInput patches asset metadata; only non-nil fields are applied.
type UpdateAssetInput struct {
	Name      *string `json:"name"`
	URL       *string `json:"url"`
	MimeType  *string `json:"type"`
	SizeBytes *int64  `json:"size"`
}

type AssetService struct {
	db      *gorm.DB
	cfg     *config.Config
	storage *StorageService
	s3      *S3Service // nil unless the mirror is enabled
}

func NewAssetService(db *gorm.DB, cfg *config.Config, storage *StorageService, s3 *S3Service) *AssetService {
	return &AssetService{db: db, cfg: cfg, storage: storage, s3: s3}
}

// ListAssetsByProject returns a project's assets, newest first.
func (s *AssetService) ListAssetsByProject(projectID string) ([]models.Asset, error) {
	var assets []models.Asset
	err := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&assets).Error
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// GetAsset returns a single asset record.
func (s *AssetService) GetAsset(id string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// CreateAsset registers an asset whose file already lives in some storage
// backend; the URL and metadata are stored verbatim.
func (s *AssetService) CreateAsset(projectID string, in CreateAssetInput) (*models.Asset, error) {
	if in.Name == "" || in.URL == "" {
		return nil, fmt.Errorf("%w: name and url are required", ErrInvalidInput)
	}
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	asset := models.Asset{
		ProjectID: projectID,
		Name:      in.Name,
		URL:       in.URL,
		MimeType:  in.MimeType,
		SizeBytes: in.SizeBytes,
	}
	if err := s.db.Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UploadAsset saves an uploaded file to local storage (and the S3 mirror when
// enabled) and registers the asset record. On a record failure the stored
// file is removed again.
func (s *AssetService) UploadAsset(ctx context.Context, projectID, filename string, r io.Reader, declaredType string) (*models.Asset, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	key := s.storage.BuildObjectKey(projectID, filename)
	absPath, size, _, err := s.storage.SaveStream(ctx, key, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	mimeType := declaredType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}

	if s.s3 != nil {
		if f, ferr := os.Open(absPath); ferr == nil {
			if uerr := s.s3.UploadObject(ctx, key, f, mimeType); uerr != nil {
				log.WithError(uerr).WithField("key", key).Warn("upload: S3 mirror failed")
			}
			f.Close()
		}
	}

	asset := models.Asset{
		ProjectID: projectID,
		Name:      filename,
		URL:       uploadsURLPrefix + key,
		MimeType:  mimeType,
		SizeBytes: size,
	}
	if err := s.db.Create(&asset).Error; err != nil {
		_ = s.storage.Remove(key)
		return nil, fmt.Errorf("failed to create asset record: %w", err)
	}
	return &asset, nil
}

// UpdateAsset patches asset metadata.
func (s *AssetService) UpdateAsset(id string, in UpdateAssetInput) (*models.Asset, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.URL != nil {
		updates["url"] = *in.URL
	}
	if in.MimeType != nil {
		updates["mime_type"] = *in.MimeType
	}
	if in.SizeBytes != nil {
		updates["size_bytes"] = *in.SizeBytes
	}
	if len(updates) > 0 {
		result := s.db.Model(&models.Asset{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetAsset(id)
}

// DeleteAsset removes the asset row; its scene and shot links cascade with it.
// The stored file is removed best-effort, the row delete is what matters.
func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	asset, err := s.GetAsset(id)
	if err != nil {
		return err
	}

	if key, ok := strings.CutPrefix(asset.URL, uploadsURLPrefix); ok {
		if rerr := s.storage.Remove(key); rerr != nil {
			log.WithError(rerr).WithField("asset_id", id).Warn("delete: failed to remove stored file")
		}
		if s.s3 != nil {
			if derr := s.s3.DeleteObject(ctx, key); derr != nil {
				log.WithError(derr).WithField("asset_id", id).Warn("delete: failed to remove S3 mirror")
			}
		}
	}

	return s.db.Where("id = ?", id).Delete(&models.Asset{}).Error
}

func (s *AssetService) requireProject(projectID string) error {
	var exists int64
	if err := s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return nil
}
