package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shot is one camera setup within a scene. All descriptive fields are
// free-form strings and default to empty.
type Shot struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	SceneID string `gorm:"type:varchar(36);not null;index:idx_shots_scene_order,priority:1" json:"sceneId"`
	Order   int    `gorm:"column:shot_order;not null;index:idx_shots_scene_order,priority:2" json:"order"`

	Content     string `gorm:"type:text" json:"content"`
	Description string `gorm:"type:text" json:"description"`
	Dialogue    string `gorm:"type:text" json:"dialogue"`
	ERT         string `gorm:"column:ert;size:64" json:"ert"` // estimated run time, free-form
	Size        string `gorm:"size:64" json:"size"`
	Perspective string `gorm:"size:64" json:"perspective"`
	Movement    string `gorm:"size:64" json:"movement"`
	Equipment   string `gorm:"size:128" json:"equipment"`
	FocalLength string `gorm:"size:64" json:"focalLength"`
	AspectRatio string `gorm:"size:32" json:"aspectRatio"`
	Notes       string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Scene Scene `gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Shot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ShotAsset links an asset to a shot with its own ordinal, so a shot's
// attached assets reorder independently of scene order. A given asset
// appears at most once per shot.
type ShotAsset struct {
	ID         string `gorm:"type:varchar(36);primaryKey"`
	ShotID     string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_shot_assets_unique"`
	AssetID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_shot_assets_unique"`
	AssetOrder int    `gorm:"not null;default:0"`

	Shot  Shot  `gorm:"foreignKey:ShotID;constraint:OnDelete:CASCADE"`
	Asset Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

func (sa *ShotAsset) BeforeCreate(tx *gorm.DB) error {
	if sa.ID == "" {
		sa.ID = uuid.NewString()
	}
	return nil
}
