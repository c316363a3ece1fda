package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/storyboard/backend/internal/config"
	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
)

func setupAssetService(t *testing.T) (*AssetService, *gorm.DB, string) {
	t.Helper()
	db := setupTestDB(t)
	uploads := t.TempDir()
	cfg := &config.Config{UploadsPath: uploads, UploadMaxFileSize: 1 << 20}
	return NewAssetService(db, cfg, NewStorageService(cfg), nil), db, uploads
}

func TestCreateAssetValidation(t *testing.T) {
	svc, db, _ := setupAssetService(t)
	project := createTestProject(t, db, "p")

	if _, err := svc.CreateAsset(project.ID, CreateAssetInput{Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing url error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateAsset("missing", CreateAssetInput{Name: "x", URL: "http://cdn/x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project error = %v, want ErrNotFound", err)
	}

	asset, err := svc.CreateAsset(project.ID, CreateAssetInput{
		Name: "board.png", URL: "http://cdn/board.png", MimeType: "image/png", SizeBytes: 42,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if asset.ID == "" {
		t.Error("asset was not assigned an id")
	}
}

func TestListAssetsNewestFirst(t *testing.T) {
	svc, db, _ := setupAssetService(t)
	project := createTestProject(t, db, "p")

	older := createTestAsset(t, db, project.ID, "older.png")
	newer := createTestAsset(t, db, project.ID, "newer.png")
	db.Model(&models.Asset{}).Where("id = ?", older.ID).Update("created_at", time.Now().Add(-time.Hour))
	db.Model(&models.Asset{}).Where("id = ?", newer.ID).Update("created_at", time.Now())

	assets, err := svc.ListAssetsByProject(project.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].Name != "newer.png" {
		t.Errorf("assets[0] = %s, want newer.png first", assets[0].Name)
	}
}

func TestUploadAssetStoresFile(t *testing.T) {
	svc, db, uploads := setupAssetService(t)
	project := createTestProject(t, db, "p")

	asset, err := svc.UploadAsset(context.Background(), project.ID, "clip.mp4", strings.NewReader("fake video bytes"), "video/mp4")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(asset.URL, "/uploads/"+project.ID+"/") {
		t.Errorf("asset url = %q, want /uploads/<project>/ prefix", asset.URL)
	}
	if asset.SizeBytes != int64(len("fake video bytes")) {
		t.Errorf("size = %d, want %d", asset.SizeBytes, len("fake video bytes"))
	}
	if asset.MimeType != "video/mp4" {
		t.Errorf("mime type = %q, want video/mp4", asset.MimeType)
	}

	key := strings.TrimPrefix(asset.URL, "/uploads/")
	if _, err := os.Stat(filepath.Join(uploads, filepath.FromSlash(key))); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	if _, err := svc.UploadAsset(context.Background(), "missing", "x.png", strings.NewReader("x"), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAssetCascadesLinks(t *testing.T) {
	svc, db, _ := setupAssetService(t)
	sceneSvc := NewSceneService(db)
	shotSvc := NewShotService(db)

	project := createTestProject(t, db, "p")
	asset := createTestAsset(t, db, project.ID, "shared.png")

	scenes, err := sceneSvc.ReconcileProjectScenes(project.ID, []SceneInput{
		{ID: PendingRef(), Content: "one", Assets: []AssetRefInput{{ID: asset.ID}}},
		{ID: PendingRef(), Content: "two", Assets: []AssetRefInput{{ID: asset.ID}}},
	})
	if err != nil {
		t.Fatalf("scene save failed: %v", err)
	}
	if _, err := shotSvc.ReconcileSceneShots(scenes[0].ID, []ShotInput{
		{ID: PendingRef(), Content: "wide", Assets: []AssetRefInput{{ID: asset.ID}}},
	}); err != nil {
		t.Fatalf("shot save failed: %v", err)
	}

	if err := svc.DeleteAsset(context.Background(), asset.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var sceneLinks, shotLinks int64
	db.Model(&models.SceneAsset{}).Count(&sceneLinks)
	db.Model(&models.ShotAsset{}).Count(&shotLinks)
	if sceneLinks != 0 || shotLinks != 0 {
		t.Errorf("link counts = %d scene, %d shot after delete, want 0, 0", sceneLinks, shotLinks)
	}

	// Scenes and shots themselves survive the asset delete
	var sceneCount, shotCount int64
	db.Model(&models.Scene{}).Count(&sceneCount)
	db.Model(&models.Shot{}).Count(&shotCount)
	if sceneCount != 2 || shotCount != 1 {
		t.Errorf("scene/shot counts = %d/%d, want 2/1", sceneCount, shotCount)
	}

	if err := svc.DeleteAsset(context.Background(), asset.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestUpdateAsset(t *testing.T) {
	svc, db, _ := setupAssetService(t)
	project := createTestProject(t, db, "p")
	asset := createTestAsset(t, db, project.ID, "a.png")

	updated, err := svc.UpdateAsset(asset.ID, UpdateAssetInput{Name: strPtr("renamed.png")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "renamed.png" {
		t.Errorf("name = %q, want renamed.png", updated.Name)
	}
	if updated.URL != asset.URL {
		t.Errorf("url changed to %q", updated.URL)
	}

	if _, err := svc.UpdateAsset("missing", UpdateAssetInput{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing asset error = %v, want ErrNotFound", err)
	}
}
