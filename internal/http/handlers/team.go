package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/http/response"
	"github.com/novahq/taskhub-backend/internal/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// POST /teams
func (th *TeamHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := th.teamService.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"team": teamView(snap)})
}

// GET /teams/:id
func (th *TeamHandler) Get(c *gin.Context) {
	id, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	snap, err := th.teamService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": teamView(snap)})
}

// GET /teams?limit=&offset=
func (th *TeamHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	snaps, err := th.teamService.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"teams": teamViews(snaps)})
}

// PATCH /teams/:id
func (th *TeamHandler) UpdateDetails(c *gin.Context) {
	id, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
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
	snap, err := th.teamService.UpdateDetails(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": teamView(snap)})
}

// POST /teams/:id/members
func (th *TeamHandler) AddMember(c *gin.Context) {
	id, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	var req struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID, err := ids.ParseUserID(req.UserID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	role, err := user.ParseTeamRole(req.Role)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
		return
	}
	snap, err := th.teamService.AddMember(c.Request.Context(), id, userID, role)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": teamView(snap)})
}

// DELETE /teams/:id/members/:userId
func (th *TeamHandler) RemoveMember(c *gin.Context) {
	id, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	userID, err := ids.ParseUserID(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	snap, err := th.teamService.RemoveMember(c.Request.Context(), id, userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": teamView(snap)})
}

// PATCH /teams/:id/members/:userId/role
func (th *TeamHandler) ChangeMemberRole(c *gin.Context) {
	id, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	userID, err := ids.ParseUserID(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	role, err := user.ParseTeamRole(req.Role)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
		return
	}
	snap, err := th.teamService.ChangeMemberRole(c.Request.Context(), id, userID, role)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"team": teamView(snap)})
}

// DELETE /teams/:id
func (th *TeamHandler) Delete(c *gin.Context) {
	id, err := ids.ParseTeamID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
		return
	}
	if err := th.teamService.Delete(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
