package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with foreign keys enabled.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	// One connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createTestProject(t *testing.T, db *gorm.DB, name string) models.Project {
	t.Helper()
	project := models.Project{Name: name}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project
}

func createTestAsset(t *testing.T, db *gorm.DB, projectID, name string) models.Asset {
	t.Helper()
	asset := models.Asset{ProjectID: projectID, Name: name, URL: "/uploads/" + projectID + "/" + name}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return asset
}

func createTestScene(t *testing.T, db *gorm.DB, projectID string, order int, content string) models.Scene {
	t.Helper()
	scene := models.Scene{ProjectID: projectID, Order: order, Content: content}
	if err := db.Create(&scene).Error; err != nil {
		t.Fatalf("Failed to create test scene: %v", err)
	}
	return scene
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
