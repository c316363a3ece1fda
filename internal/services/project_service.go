package services

import (
	"errors"
	"time"

	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
)

// ProjectSummary is the list-view shape of a project, without scenes.
type ProjectSummary struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	ShotCount int                 `json:"shotCount"`
	Status    string              `json:"status"`
	State     models.ProjectState `gorm:"column:project_state" json:"projectState"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ProjectView is the full aggregate: project scalars plus ordered scenes with
// resolved assets and nested, ordinally-ordered shots.
type ProjectView struct {
	models.Project
	Scenes []SceneView `json:"scenes"`
}

// CreateProjectInput creates a project, optionally with an initial scene list.
type CreateProjectInput struct {
	Name   string       `json:"name"`
	Script string       `json:"script"`
	Scenes []SceneInput `json:"scenes"`
}

// UpdateProjectInput patches project scalars; a non-nil scene list triggers
// full scene reconciliation.
type UpdateProjectInput struct {
	Name      *string              `json:"name"`
	Script    *string              `json:"script"`
	ShotCount *int                 `json:"shotCount"`
	Status    *string              `json:"status"`
	State     *models.ProjectState `json:"projectState"`
	Scenes    *[]SceneInput        `json:"scenes"`
}

type ProjectService struct {
	db     *gorm.DB
	scenes *SceneService
	shots  *ShotService
}

func NewProjectService(db *gorm.DB, scenes *SceneService, shots *ShotService) *ProjectService {
	return &ProjectService{db: db, scenes: scenes, shots: shots}
}

// ListProjects returns project summaries, most recently updated first.
func (s *ProjectService) ListProjects() ([]ProjectSummary, error) {
	var summaries []ProjectSummary
	err := s.db.Model(&models.Project{}).
		Select("id, name, shot_count, status, project_state, created_at, updated_at").
		Order("updated_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []ProjectSummary{}
	}
	return summaries, nil
}

// GetProject assembles the full aggregate for one project. Absence is
// reported as ErrNotFound, never a fault.
func (s *ProjectService) GetProject(id string) (*ProjectView, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	scenes, err := s.scenes.ListProjectScenes(id)
	if err != nil {
		return nil, err
	}

	sceneIDs := make([]string, len(scenes))
	for i, sc := range scenes {
		sceneIDs[i] = sc.ID
	}
	shotsByScene, err := s.shots.ListShotsByScenes(sceneIDs)
	if err != nil {
		return nil, err
	}
	for i := range scenes {
		if shots, ok := shotsByScene[scenes[i].ID]; ok {
			scenes[i].Shots = shots
		}
	}

	return &ProjectView{Project: project, Scenes: scenes}, nil
}

// CreateProject creates a project and, when an initial scene list is given,
// runs it through scene reconciliation. Both happen in one transaction, so a
// failed scene save never leaves an empty project behind.
func (s *ProjectService) CreateProject(in CreateProjectInput) (*ProjectView, error) {
	project := models.Project{
		Name:   in.Name,
		Script: in.Script,
	}
	if in.Script != "" {
		project.State = models.ProjectStateScriptAdded
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if len(in.Scenes) > 0 {
			return s.scenes.reconcileScenes(tx, project.ID, in.Scenes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProject(project.ID)
}

// UpdateProject applies a partial update. The scene list, when present, is
// reconciled first so the returned aggregate reflects both.
func (s *ProjectService) UpdateProject(id string, in UpdateProjectInput) (*ProjectView, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Scenes != nil {
		if _, err := s.scenes.ReconcileProjectScenes(id, *in.Scenes); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Script != nil {
		updates["script"] = *in.Script
		if project.State == models.ProjectStateNoScript && *in.Script != "" {
			updates["project_state"] = models.ProjectStateScriptAdded
		}
	}
	if in.ShotCount != nil {
		updates["shot_count"] = *in.ShotCount
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.State != nil {
		updates["project_state"] = *in.State
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetProject(id)
}

// DeleteProject removes a project; owned scenes, shots, assets and links go
// with it.
func (s *ProjectService) DeleteProject(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
