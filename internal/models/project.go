package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectState tracks how far a project has moved through the authoring flow.
type ProjectState string

const (
	ProjectStateNoScript        ProjectState = "NO_SCRIPT"
	ProjectStateScriptAdded     ProjectState = "SCRIPT_ADDED"
	ProjectStateScenesGenerated ProjectState = "SCENES_GENERATED"
)

// Project is the root aggregate. Scenes and assets belong to exactly one
// project and are removed with it.
type Project struct {
	ID        string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string       `gorm:"size:255;not null;default:'Untitled Project'" json:"name"`
	Script    string       `gorm:"type:text" json:"script"`
	ShotCount int          `gorm:"default:0" json:"shotCount"` // denormalized, client-maintained
	Status    string       `gorm:"size:32;default:'draft'" json:"status"`
	State     ProjectState `gorm:"column:project_state;size:32;default:'NO_SCRIPT'" json:"projectState"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Scenes []Scene `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Assets []Asset `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Name == "" {
		p.Name = "Untitled Project"
	}
	if p.Status == "" {
		p.Status = "draft"
	}
	if p.State == "" {
		p.State = ProjectStateNoScript
	}
	return nil
}
