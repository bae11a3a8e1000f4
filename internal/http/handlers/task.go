package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/task"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
	"github.com/novahq/taskhub-backend/internal/http/response"
	"github.com/novahq/taskhub-backend/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// POST /tasks
func (th *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title          string     `json:"title"`
		Description    string     `json:"description"`
		Priority       string     `json:"priority"`
		ProjectID      string     `json:"project_id"`
		ParentTaskID   *string    `json:"parent_task_id"`
		DueDate        *time.Time `json:"due_date"`
		EstimatedHours *int       `json:"estimated_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	projectID, err := ids.ParseProjectID(req.ProjectID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	priority, ok := task.ParsePriority(req.Priority)
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_priority", validate.Argument("priority", "unknown priority"))
		return
	}
	in := services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       priority,
		ProjectID:      projectID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	}
	if req.ParentTaskID != nil {
		parentID, err := ids.ParseTaskID(*req.ParentTaskID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_parent_task_id", err)
			return
		}
		in.ParentTaskID = &parentID
	}
	snap, err := th.taskService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"task": taskView(snap)})
}

// GET /tasks/:id
func (th *TaskHandler) Get(c *gin.Context) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	snap, err := th.taskService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}

// GET /projects/:id/tasks
func (th *TaskHandler) ListByProject(c *gin.Context) {
	projectID, err := ids.ParseProjectID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	snaps, err := th.taskService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": taskViews(snaps)})
}

// GET /users/:id/tasks
func (th *TaskHandler) ListByAssignee(c *gin.Context) {
	userID, err := ids.ParseUserID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	snaps, err := th.taskService.ListByAssignee(c.Request.Context(), userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": taskViews(snaps)})
}

// PATCH /tasks/:id
func (th *TaskHandler) UpdateDetails(c *gin.Context) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	var req struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		EstimatedHours *int   `json:"estimated_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := th.taskService.UpdateDetails(c.Request.Context(), id, req.Title, req.Description, req.EstimatedHours)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}

// PATCH /tasks/:id/due-date
func (th *TaskHandler) SetDueDate(c *gin.Context) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	var req struct {
		DueDate *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	snap, err := th.taskService.SetDueDate(c.Request.Context(), id, req.DueDate)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}

// PATCH /tasks/:id/priority
func (th *TaskHandler) ChangePriority(c *gin.Context) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	var req struct {
		Priority string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	priority, ok := task.ParsePriority(req.Priority)
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_priority", validate.Argument("priority", "unknown priority"))
		return
	}
	snap, err := th.taskService.ChangePriority(c.Request.Context(), id, priority)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}

// POST /tasks/:id/start
func (th *TaskHandler) Start(c *gin.Context) {
	th.transition(c, th.taskService.Start)
}

// POST /tasks/:id/review
func (th *TaskHandler) SubmitForReview(c *gin.Context) {
	th.transition(c, th.taskService.SubmitForReview)
}

// POST /tasks/:id/complete
func (th *TaskHandler) Complete(c *gin.Context) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	var req struct {
		ActualHours *int `json:"actual_hours"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	snap, err := th.taskService.Complete(c.Request.Context(), id, req.ActualHours)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}

// POST /tasks/:id/cancel
func (th *TaskHandler) Cancel(c *gin.Context) {
	th.transition(c, th.taskService.Cancel)
}

// POST /tasks/:id/reopen
func (th *TaskHandler) Reopen(c *gin.Context) {
	th.transition(c, th.taskService.Reopen)
}

// POST /tasks/:id/assign
func (th *TaskHandler) AssignTo(c *gin.Context) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	assigneeID, err := ids.ParseUserID(req.UserID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	snap, err := th.taskService.AssignTo(c.Request.Context(), id, assigneeID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}

// POST /tasks/:id/unassign
func (th *TaskHandler) Unassign(c *gin.Context) {
	th.transition(c, th.taskService.Unassign)
}

func (th *TaskHandler) transition(c *gin.Context, fn func(ctx context.Context, id ids.TaskID) (task.Snapshot, error)) {
	id, err := ids.ParseTaskID(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return
	}
	snap, err := fn(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": taskView(snap)})
}
