package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scene is one ordered screenplay block of a project. Order is per-project,
// ascending; gaps are tolerated and never compacted.
type Scene struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID string `gorm:"type:varchar(36);not null;index:idx_scenes_project_order,priority:1" json:"projectId"`
	Order     int    `gorm:"column:scene_order;not null;index:idx_scenes_project_order,priority:2" json:"order"`
	Content   string `gorm:"type:text" json:"content"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Shots   []Shot  `gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Scene) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SceneAsset links an asset to a scene. A given asset appears at most once
// per scene; AssetOrder keeps the submitted sequence since the uuid keys
// carry no insertion order.
type SceneAsset struct {
	ID         string `gorm:"type:varchar(36);primaryKey"`
	SceneID    string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_scene_assets_unique"`
	AssetID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_scene_assets_unique"`
	AssetOrder int    `gorm:"not null;default:0"`

	Scene Scene `gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE"`
	Asset Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}

func (sa *SceneAsset) BeforeCreate(tx *gorm.DB) error {
	if sa.ID == "" {
		sa.ID = uuid.NewString()
	}
	return nil
}
