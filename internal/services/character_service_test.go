package services

import (
	"errors"
	"testing"

	"github.com/storyboard/backend/internal/models"
)

func TestCharacterCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCharacterService(db)
	project := createTestProject(t, db, "p")

	if _, err := svc.CreateCharacter(project.ID, CharacterInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateCharacter("missing", CharacterInput{Name: "Ana"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project error = %v, want ErrNotFound", err)
	}

	character, err := svc.CreateCharacter(project.ID, CharacterInput{Name: "Ana", Description: "protagonist"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	character, err = svc.UpdateCharacter(character.ID, UpdateCharacterInput{Description: strPtr("lead, mid 30s")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if character.Name != "Ana" || character.Description != "lead, mid 30s" {
		t.Errorf("character = %q / %q", character.Name, character.Description)
	}

	if err := svc.DeleteCharacter(character.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteCharacter(character.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestCreateCharactersBulkIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCharacterService(db)
	project := createTestProject(t, db, "p")

	characters, err := svc.CreateCharacters(project.ID, []CharacterInput{
		{Name: "Ana"},
		{Name: "Ben"},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(characters) != 2 {
		t.Fatalf("got %d characters, want 2", len(characters))
	}

	// One bad entry rolls back the whole batch
	if _, err := svc.CreateCharacters(project.ID, []CharacterInput{
		{Name: "Cleo"},
		{Name: ""},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad batch error = %v, want ErrInvalidInput", err)
	}

	var count int64
	db.Model(&models.Character{}).Count(&count)
	if count != 2 {
		t.Errorf("character count = %d after failed batch, want 2", count)
	}
}
