package services

import (
	"errors"
	"fmt"

	"github.com/storyboard/backend/internal/models"
	"gorm.io/gorm"
)

type CharacterInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCharacterInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CharacterService struct {
	db *gorm.DB
}

func NewCharacterService(db *gorm.DB) *CharacterService {
	return &CharacterService{db: db}
}

func (s *CharacterService) ListCharactersByProject(projectID string) ([]models.Character, error) {
	var characters []models.Character
	err := s.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&characters).Error
	if err != nil {
		return nil, err
	}
	if characters == nil {
		characters = []models.Character{}
	}
	return characters, nil
}

func (s *CharacterService) GetCharacter(id string) (*models.Character, error) {
	var character models.Character
	if err := s.db.First(&character, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &character, nil
}

func (s *CharacterService) CreateCharacter(projectID string, in CharacterInput) (*models.Character, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	character := models.Character{
		ProjectID:   projectID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.db.Create(&character).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

// CreateCharacters inserts a batch in one transaction; either all of them
// land or none do.
func (s *CharacterService) CreateCharacters(projectID string, inputs []CharacterInput) ([]models.Character, error) {
	if len(inputs) == 0 {
		return []models.Character{}, nil
	}
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	characters := make([]models.Character, 0, len(inputs))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			if in.Name == "" {
				return fmt.Errorf("%w: name is required", ErrInvalidInput)
			}
			character := models.Character{
				ProjectID:   projectID,
				Name:        in.Name,
				Description: in.Description,
			}
			if err := tx.Create(&character).Error; err != nil {
				return err
			}
			characters = append(characters, character)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (s *CharacterService) UpdateCharacter(id string, in UpdateCharacterInput) (*models.Character, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) > 0 {
		result := s.db.Model(&models.Character{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetCharacter(id)
}

func (s *CharacterService) DeleteCharacter(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Character{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CharacterService) requireProject(projectID string) error {
	var exists int64
	if err := s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return nil
}
