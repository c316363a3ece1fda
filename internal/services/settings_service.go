package services

import (
	"errors"
	"time"

	"github.com/storyboard/backend/internal/config"
	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsView is what clients see of the stored settings; the API key is
// never echoed back, only its masked tail.
type SettingsView struct {
	HasKey    bool       `json:"hasGoogleAiApiKey"`
	MaskedKey string     `json:"googleAiApiKey"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type SaveSettingsInput struct {
	GoogleAIKey *string `json:"googleAiApiKey"`
}

type SettingsService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSettingsService(db *gorm.DB, cfg *config.Config) *SettingsService {
	return &SettingsService{db: db, cfg: cfg}
}

// GetSettings returns the single settings row, masked for display.
func (s *SettingsService) GetSettings() (*SettingsView, error) {
	var setting models.Setting
	err := s.db.First(&setting, "id = ?", models.SettingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SettingsView{HasKey: s.cfg.GoogleAIKey != ""}, nil
		}
		return nil, err
	}
	view := &SettingsView{
		HasKey:    setting.GoogleAIKey != "" || s.cfg.GoogleAIKey != "",
		MaskedKey: maskKey(setting.GoogleAIKey),
	}
	if !setting.UpdatedAt.IsZero() {
		t := setting.UpdatedAt
		view.UpdatedAt = &t
	}
	return view, nil
}

// SaveSettings upserts the single settings row.
func (s *SettingsService) SaveSettings(in SaveSettingsInput) (*SettingsView, error) {
	setting := models.Setting{ID: models.SettingID}
	if in.GoogleAIKey != nil {
		setting.GoogleAIKey = *in.GoogleAIKey
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"google_ai_api_key", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return nil, err
	}
	return s.GetSettings()
}

// APIKey resolves the Gemini key: the stored settings row wins, the
// environment is the fallback.
func (s *SettingsService) APIKey() (string, error) {
	var setting models.Setting
	err := s.db.First(&setting, "id = ?", models.SettingID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if setting.GoogleAIKey != "" {
		return setting.GoogleAIKey, nil
	}
	return s.cfg.GoogleAIKey, nil
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "••••••••"
	}
	return "••••••••" + key[len(key)-4:]
}
