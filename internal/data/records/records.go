// Package records defines the GORM row types backing the aggregates and the
// mapping between rows and aggregate snapshots. Rows carry a Version column
// used by the optimistic write guard; the domain never sees it.
package records

import (
	"time"

	"github.com/google/uuid"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/project"
	"github.com/novahq/taskhub-backend/internal/domain/task"
	"github.com/novahq/taskhub-backend/internal/domain/team"
	"github.com/novahq/taskhub-backend/internal/domain/user"
)

type UserRecord struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	Role         string     `gorm:"not null;column:role" json:"role"`
	Status       string     `gorm:"not null;column:status" json:"status"`
	Version      int        `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
}

func (UserRecord) TableName() string { return "users" }

func (r UserRecord) ToSnapshot() user.Snapshot {
	return user.Snapshot{
		ID:        ids.UserIDFrom(r.ID),
		Name:      r.Name,
		Email:     r.Email,
		Role:      user.Role(r.Role),
		Status:    user.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		CreatedBy: userIDPtr(r.CreatedBy),
		UpdatedBy: userIDPtr(r.UpdatedBy),
	}
}

func UserRecordFrom(s user.Snapshot, passwordHash string, version int) UserRecord {
	return UserRecord{
		ID:           s.ID.UUID(),
		Name:         s.Name,
		Email:        s.Email,
		PasswordHash: passwordHash,
		Role:         s.Role.String(),
		Status:       s.Status.String(),
		Version:      version,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		CreatedBy:    uuidPtr(s.CreatedBy),
		UpdatedBy:    uuidPtr(s.UpdatedBy),
	}
}

type TeamRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	Status      string     `gorm:"not null;column:status" json:"status"`
	Version     int        `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`

	Members []TeamMemberRecord `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (TeamRecord) TableName() string { return "teams" }

type TeamMemberRecord struct {
	TeamID   uuid.UUID `gorm:"type:uuid;primaryKey;column:team_id" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index;column:user_id" json:"user_id"`
	Role     string    `gorm:"not null;column:role" json:"role"`
	JoinedAt time.Time `gorm:"not null;column:joined_at" json:"joined_at"`
}

func (TeamMemberRecord) TableName() string { return "team_members" }

func (r TeamRecord) ToSnapshot() team.Snapshot {
	members := make([]team.MemberSnapshot, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, team.MemberSnapshot{
			UserID:   ids.UserIDFrom(m.UserID),
			Role:     user.TeamRole(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	return team.Snapshot{
		ID:          ids.TeamIDFrom(r.ID),
		Name:        r.Name,
		Description: r.Description,
		Status:      team.Status(r.Status),
		Members:     members,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CreatedBy:   userIDPtr(r.CreatedBy),
		UpdatedBy:   userIDPtr(r.UpdatedBy),
	}
}

func TeamRecordFrom(s team.Snapshot, version int) TeamRecord {
	rec := TeamRecord{
		ID:          s.ID.UUID(),
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status.String(),
		Version:     version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CreatedBy:   uuidPtr(s.CreatedBy),
		UpdatedBy:   uuidPtr(s.UpdatedBy),
	}
	for _, m := range s.Members {
		rec.Members = append(rec.Members, TeamMemberRecord{
			TeamID:   s.ID.UUID(),
			UserID:   m.UserID.UUID(),
			Role:     m.Role.String(),
			JoinedAt: m.JoinedAt,
		})
	}
	return rec
}

type ProjectRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string     `gorm:"not null;column:name" json:"name"`
	Description    string     `gorm:"column:description" json:"description"`
	Status         string     `gorm:"not null;index;column:status" json:"status"`
	TeamID         uuid.UUID  `gorm:"type:uuid;not null;index;column:team_id" json:"team_id"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	PlannedEndDate *time.Time `gorm:"column:planned_end_date" json:"planned_end_date,omitempty"`
	Version        int        `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	UpdatedBy      *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
}

func (ProjectRecord) TableName() string { return "projects" }

func (r ProjectRecord) ToSnapshot() project.Snapshot {
	return project.Snapshot{
		ID:             ids.ProjectIDFrom(r.ID),
		Name:           r.Name,
		Description:    r.Description,
		Status:         project.Status(r.Status),
		TeamID:         ids.TeamIDFrom(r.TeamID),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		PlannedEndDate: r.PlannedEndDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		CreatedBy:      userIDPtr(r.CreatedBy),
		UpdatedBy:      userIDPtr(r.UpdatedBy),
	}
}

func ProjectRecordFrom(s project.Snapshot, version int) ProjectRecord {
	return ProjectRecord{
		ID:             s.ID.UUID(),
		Name:           s.Name,
		Description:    s.Description,
		Status:         s.Status.String(),
		TeamID:         s.TeamID.UUID(),
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		PlannedEndDate: s.PlannedEndDate,
		Version:        version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		CreatedBy:      uuidPtr(s.CreatedBy),
		UpdatedBy:      uuidPtr(s.UpdatedBy),
	}
}

type TaskRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string     `gorm:"not null;column:title" json:"title"`
	Description    string     `gorm:"column:description" json:"description"`
	Status         string     `gorm:"not null;index;column:status" json:"status"`
	Priority       string     `gorm:"not null;column:priority" json:"priority"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index;column:project_id" json:"project_id"`
	AssignedUserID *uuid.UUID `gorm:"type:uuid;index;column:assigned_user_id" json:"assigned_user_id,omitempty"`
	ParentTaskID   *uuid.UUID `gorm:"type:uuid;index;column:parent_task_id" json:"parent_task_id,omitempty"`
	EstimatedHours *int       `gorm:"column:estimated_hours" json:"estimated_hours,omitempty"`
	ActualHours    *int       `gorm:"column:actual_hours" json:"actual_hours,omitempty"`
	DueDate        *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	StartedAt      *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Version        int        `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	UpdatedBy      *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
}

func (TaskRecord) TableName() string { return "tasks" }

// ToSnapshot maps a single row; the caller attaches subtask snapshots after
// loading the child rows.
func (r TaskRecord) ToSnapshot() task.Snapshot {
	return task.Snapshot{
		ID:             ids.TaskIDFrom(r.ID),
		Title:          r.Title,
		Description:    r.Description,
		Status:         task.Status(r.Status),
		Priority:       task.Priority(r.Priority),
		ProjectID:      ids.ProjectIDFrom(r.ProjectID),
		AssignedUserID: userIDPtr(r.AssignedUserID),
		ParentTaskID:   taskIDPtr(r.ParentTaskID),
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		DueDate:        r.DueDate,
		StartedAt:      r.StartedAt,
		CompletedAt:    r.CompletedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		CreatedBy:      userIDPtr(r.CreatedBy),
		UpdatedBy:      userIDPtr(r.UpdatedBy),
	}
}

func TaskRecordFrom(s task.Snapshot, version int) TaskRecord {
	var assigned *uuid.UUID
	if s.AssignedUserID != nil {
		v := s.AssignedUserID.UUID()
		assigned = &v
	}
	var parent *uuid.UUID
	if s.ParentTaskID != nil {
		v := s.ParentTaskID.UUID()
		parent = &v
	}
	return TaskRecord{
		ID:             s.ID.UUID(),
		Title:          s.Title,
		Description:    s.Description,
		Status:         s.Status.String(),
		Priority:       s.Priority.String(),
		ProjectID:      s.ProjectID.UUID(),
		AssignedUserID: assigned,
		ParentTaskID:   parent,
		EstimatedHours: s.EstimatedHours,
		ActualHours:    s.ActualHours,
		DueDate:        s.DueDate,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
		Version:        version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		CreatedBy:      uuidPtr(s.CreatedBy),
		UpdatedBy:      uuidPtr(s.UpdatedBy),
	}
}

// All enumerates every record type for AutoMigrate.
func All() []any {
	return []any{
		&UserRecord{},
		&TeamRecord{},
		&TeamMemberRecord{},
		&ProjectRecord{},
		&TaskRecord{},
	}
}

func uuidPtr(id *ids.UserID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := id.UUID()
	return &v
}

func userIDPtr(u *uuid.UUID) *ids.UserID {
	if u == nil {
		return nil
	}
	v := ids.UserIDFrom(*u)
	return &v
}

func taskIDPtr(u *uuid.UUID) *ids.TaskID {
	if u == nil {
		return nil
	}
	v := ids.TaskIDFrom(*u)
	return &v
}
