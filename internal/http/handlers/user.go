package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/http/response"
	"github.com/novahq/taskhub-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /users
func (uh *UserHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	role, err := user.ParseRole(req.Role)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
		return
	}
	snap, err := uh.userService.Register(c.Request.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": userView(snap)})
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	snap, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": userView(snap)})
}

// GET /users/:id
func (uh *UserHandler) Get(c *gin.Context) {
	id, err := ids.ParseUserID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	snap, err := uh.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": userView(snap)})
}

// GET /users?limit=&offset=
func (uh *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	snaps, err := uh.userService.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": userViews(snaps)})
}

// PATCH /users/:id/profile
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	id, err := ids.ParseUserID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := uh.userService.UpdateProfile(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": userView(snap)})
}

// PATCH /users/:id/role
func (uh *UserHandler) ChangeRole(c *gin.Context) {
	id, err := ids.ParseUserID(c.Param("id"))
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
	role, err := user.ParseRole(req.Role)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
		return
	}
	snap, err := uh.userService.ChangeRole(c.Request.Context(), id, role)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": userView(snap)})
}

// POST /users/:id/activate
func (uh *UserHandler) Activate(c *gin.Context) {
	uh.statusChange(c, uh.userService.Activate)
}

// POST /users/:id/deactivate
func (uh *UserHandler) Deactivate(c *gin.Context) {
	uh.statusChange(c, uh.userService.Deactivate)
}

// POST /users/:id/suspend
func (uh *UserHandler) Suspend(c *gin.Context) {
	uh.statusChange(c, uh.userService.Suspend)
}

func (uh *UserHandler) statusChange(c *gin.Context, fn func(ctx context.Context, id ids.UserID) (user.Snapshot, error)) {
	id, err := ids.ParseUserID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	snap, err := fn(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": userView(snap)})
}
