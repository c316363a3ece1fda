package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is an uploaded media file owned by a project. The URL and content
// metadata come from the storage backend and are stored verbatim.
type Asset struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID string `gorm:"type:varchar(36);not null;index" json:"projectId"`
	Name      string `gorm:"size:255;not null" json:"name"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	MimeType  string `gorm:"column:mime_type;size:120" json:"type"`
	SizeBytes int64  `gorm:"column:size_bytes" json:"size"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
