// Package events defines the immutable facts aggregates emit on meaningful
// state change. Events carry identifiers only, never live object references.
package events

import (
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
)

type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Base supplies the shared envelope: when it happened and who caused it.
type Base struct {
	At      time.Time  `json:"occurred_at"`
	ActorID ids.UserID `json:"actor_id"`
}

func NewBase(actor ids.UserID) Base {
	return Base{At: time.Now().UTC(), ActorID: actor}
}

func (b Base) OccurredAt() time.Time { return b.At }

type UserCreated struct {
	Base
	UserID ids.UserID `json:"user_id"`
	Role   string     `json:"role"`
}

func (UserCreated) EventName() string { return "user.created" }

type UserStatusChanged struct {
	Base
	UserID     ids.UserID `json:"user_id"`
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
}

func (UserStatusChanged) EventName() string { return "user.status_changed" }

type UserRoleChanged struct {
	Base
	UserID   ids.UserID `json:"user_id"`
	FromRole string     `json:"from_role"`
	ToRole   string     `json:"to_role"`
}

func (UserRoleChanged) EventName() string { return "user.role_changed" }

type TeamCreated struct {
	Base
	TeamID ids.TeamID `json:"team_id"`
	Name   string     `json:"name"`
}

func (TeamCreated) EventName() string { return "team.created" }

type TeamMemberAdded struct {
	Base
	TeamID ids.TeamID `json:"team_id"`
	UserID ids.UserID `json:"user_id"`
	Role   string     `json:"role"`
}

func (TeamMemberAdded) EventName() string { return "team.member_added" }

type TeamMemberRemoved struct {
	Base
	TeamID ids.TeamID `json:"team_id"`
	UserID ids.UserID `json:"user_id"`
}

func (TeamMemberRemoved) EventName() string { return "team.member_removed" }

type TeamMemberRoleChanged struct {
	Base
	TeamID   ids.TeamID `json:"team_id"`
	UserID   ids.UserID `json:"user_id"`
	FromRole string     `json:"from_role"`
	ToRole   string     `json:"to_role"`
}

func (TeamMemberRoleChanged) EventName() string { return "team.member_role_changed" }

type ProjectCreated struct {
	Base
	ProjectID ids.ProjectID `json:"project_id"`
	TeamID    ids.TeamID    `json:"team_id"`
	Name      string        `json:"name"`
}

func (ProjectCreated) EventName() string { return "project.created" }

type ProjectStatusChanged struct {
	Base
	ProjectID  ids.ProjectID `json:"project_id"`
	FromStatus string        `json:"from_status"`
	ToStatus   string        `json:"to_status"`
}

func (ProjectStatusChanged) EventName() string { return "project.status_changed" }

type TaskCreated struct {
	Base
	TaskID       ids.TaskID    `json:"task_id"`
	ProjectID    ids.ProjectID `json:"project_id"`
	ParentTaskID *ids.TaskID   `json:"parent_task_id,omitempty"`
	Title        string        `json:"title"`
}

func (TaskCreated) EventName() string { return "task.created" }

type TaskStatusChanged struct {
	Base
	TaskID     ids.TaskID `json:"task_id"`
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
}

func (TaskStatusChanged) EventName() string { return "task.status_changed" }

type TaskAssigned struct {
	Base
	TaskID     ids.TaskID `json:"task_id"`
	AssigneeID ids.UserID `json:"assignee_id"`
}

func (TaskAssigned) EventName() string { return "task.assigned" }

type TaskUnassigned struct {
	Base
	TaskID ids.TaskID `json:"task_id"`
}

func (TaskUnassigned) EventName() string { return "task.unassigned" }
