package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storyboard/backend/internal/services"
)

type CharacterHandler struct {
	characterService *services.CharacterService
}

func NewCharacterHandler(characterService *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{characterService: characterService}
}

// ListProjectCharacters returns a project's characters.
func (h *CharacterHandler) ListProjectCharacters(c *gin.Context) {
	characters, err := h.characterService.ListCharactersByProject(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

// CreateCharacter adds a single character to a project.
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	var req services.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	character, err := h.characterService.CreateCharacter(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, character)
}

// CreateCharactersBulk adds a batch of characters in one transaction.
func (h *CharacterHandler) CreateCharactersBulk(c *gin.Context) {
	var req []services.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be an array of characters"})
		return
	}

	characters, err := h.characterService.CreateCharacters(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, characters)
}

// UpdateCharacter patches a character.
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	var req services.UpdateCharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	character, err := h.characterService.UpdateCharacter(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

// DeleteCharacter removes a character.
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	if err := h.characterService.DeleteCharacter(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Character deleted successfully"})
}
