package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/project"
	"github.com/novahq/taskhub-backend/internal/http/response"
	"github.com/novahq/taskhub-backend/internal/services"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// POST /projects
func (ph *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name           string     `json:"name"`
		Description    string     `json:"description"`
		TeamID         string     `json:"team_id"`
		PlannedEndDate *time.Time `json:"planned_end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	teamID, err := ids.ParseTeamID(req.TeamID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	snap, err := ph.projectService.Create(c.Request.Context(), req.Name, req.Description, teamID, req.PlannedEndDate)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"project": projectView(snap)})
}

// GET /projects/:id
func (ph *ProjectHandler) Get(c *gin.Context) {
	id, err := ids.ParseProjectID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	snap, err := ph.projectService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project": projectView(snap)})
}

// GET /teams/:id/projects
func (ph *ProjectHandler) ListByTeam(c *gin.Context) {
	teamID, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	snaps, err := ph.projectService.ListByTeam(c.Request.Context(), teamID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": projectViews(snaps)})
}

// PATCH /projects/:id
func (ph *ProjectHandler) UpdateDetails(c *gin.Context) {
	id, err := ids.ParseProjectID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := ph.projectService.UpdateDetails(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project": projectView(snap)})
}

// PATCH /projects/:id/planned-end-date
func (ph *ProjectHandler) SetPlannedEndDate(c *gin.Context) {
	id, err := ids.ParseProjectID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req struct {
		PlannedEndDate *time.Time `json:"planned_end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := ph.projectService.SetPlannedEndDate(c.Request.Context(), id, req.PlannedEndDate)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project": projectView(snap)})
}

// POST /projects/:id/start
func (ph *ProjectHandler) Start(c *gin.Context) {
	ph.transition(c, ph.projectService.Start)
}

// POST /projects/:id/hold
func (ph *ProjectHandler) PutOnHold(c *gin.Context) {
	ph.transition(c, ph.projectService.PutOnHold)
}

// POST /projects/:id/resume
func (ph *ProjectHandler) Resume(c *gin.Context) {
	ph.transition(c, ph.projectService.Resume)
}

// POST /projects/:id/complete
func (ph *ProjectHandler) Complete(c *gin.Context) {
	ph.transition(c, ph.projectService.Complete)
}

// POST /projects/:id/cancel
func (ph *ProjectHandler) Cancel(c *gin.Context) {
	ph.transition(c, ph.projectService.Cancel)
}

func (ph *ProjectHandler) transition(c *gin.Context, fn func(ctx context.Context, id ids.ProjectID) (project.Snapshot, error)) {
	id, err := ids.ParseProjectID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	snap, err := fn(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project": projectView(snap)})
}
