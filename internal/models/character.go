package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Character is a named figure in a project's script, kept alongside scenes
// so generated shot lists can reference a consistent cast.
type Character struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID   string `gorm:"type:varchar(36);not null;index" json:"projectId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Character) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
