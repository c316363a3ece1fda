package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storyboard/backend/internal/models"
	"github.com/storyboard/backend/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	aiService      *services.AIService
}

func NewProjectHandler(projectService *services.ProjectService, aiService *services.AIService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		aiService:      aiService,
	}
}

// ListProjects returns summaries of all projects, most recently updated first.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject returns the full project aggregate with scenes, shots and assets.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject creates a project, optionally with an initial scene list.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req services.CreateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.CreateProject(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// UpdateProject patches project scalars and, when a scene list is present,
// reconciles the project's scenes against it.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req services.UpdateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.UpdateProject(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and everything hanging off it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GenerateScenes runs the script through Gemini and replaces the project's
// scenes with the generated list.
func (h *ProjectHandler) GenerateScenes(c *gin.Context) {
	projectID := c.Param("id")

	var req struct {
		Script string `json:"script"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	script := req.Script
	if script == "" {
		project, err := h.projectService.GetProject(projectID)
		if err != nil {
			respondError(c, err)
			return
		}
		script = project.Script
	}

	scenes, err := h.aiService.GenerateScenes(c.Request.Context(), script)
	if err != nil {
		respondError(c, err)
		return
	}

	state := models.ProjectStateScenesGenerated
	project, err := h.projectService.UpdateProject(projectID, services.UpdateProjectInput{
		Script: &script,
		State:  &state,
		Scenes: &scenes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
