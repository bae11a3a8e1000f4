// Package handlers holds the thin HTTP layer: bind, call the service,
// translate the result. No domain logic lives here.
package handlers

import (
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/project"
	"github.com/novahq/taskhub-backend/internal/domain/task"
	"github.com/novahq/taskhub-backend/internal/domain/team"
	"github.com/novahq/taskhub-backend/internal/domain/user"
)

type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userView(s user.Snapshot) UserView {
	return UserView{
		ID:        s.ID.String(),
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role.String(),
		Status:    s.Status.String(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func userViews(snaps []user.Snapshot) []UserView {
	out := make([]UserView, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, userView(s))
	}
	return out
}

type TeamMemberView struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type TeamView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status"`
	Members     []TeamMemberView `json:"members"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func teamView(s team.Snapshot) TeamView {
	members := make([]TeamMemberView, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, TeamMemberView{
			UserID:   m.UserID.String(),
			Role:     m.Role.String(),
			JoinedAt: m.JoinedAt,
		})
	}
	return TeamView{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status.String(),
		Members:     members,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func teamViews(snaps []team.Snapshot) []TeamView {
	out := make([]TeamView, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, teamView(s))
	}
	return out
}

type ProjectView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	TeamID         string     `json:"team_id"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	PlannedEndDate *time.Time `json:"planned_end_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func projectView(s project.Snapshot) ProjectView {
	return ProjectView{
		ID:             s.ID.String(),
		Name:           s.Name,
		Description:    s.Description,
		Status:         s.Status.String(),
		TeamID:         s.TeamID.String(),
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		PlannedEndDate: s.PlannedEndDate,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func projectViews(snaps []project.Snapshot) []ProjectView {
	out := make([]ProjectView, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, projectView(s))
	}
	return out
}

type TaskView struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	ProjectID      string     `json:"project_id"`
	AssignedUserID *string    `json:"assigned_user_id,omitempty"`
	ParentTaskID   *string    `json:"parent_task_id,omitempty"`
	EstimatedHours *int       `json:"estimated_hours,omitempty"`
	ActualHours    *int       `json:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Subtasks       []TaskView `json:"subtasks,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func taskView(s task.Snapshot) TaskView {
	v := TaskView{
		ID:             s.ID.String(),
		Title:          s.Title,
		Description:    s.Description,
		Status:         s.Status.String(),
		Priority:       s.Priority.String(),
		ProjectID:      s.ProjectID.String(),
		EstimatedHours: s.EstimatedHours,
		ActualHours:    s.ActualHours,
		DueDate:        s.DueDate,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.AssignedUserID != nil {
		id := s.AssignedUserID.String()
		v.AssignedUserID = &id
	}
	if s.ParentTaskID != nil {
		id := s.ParentTaskID.String()
		v.ParentTaskID = &id
	}
	for _, sub := range s.Subtasks {
		v.Subtasks = append(v.Subtasks, taskView(sub))
	}
	return v
}

func taskViews(snaps []task.Snapshot) []TaskView {
	out := make([]TaskView, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, taskView(s))
	}
	return out
}
