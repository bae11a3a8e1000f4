package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/novahq/taskhub-backend/internal/data/records"
)

// NewUserRecord builds a persisted-shape user row with sane defaults.
func NewUserRecord(email string) records.UserRecord {
	now := time.Now().UTC()
	return records.UserRecord{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		Role:         "developer",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewTeamRecord(name string) records.TeamRecord {
	now := time.Now().UTC()
	return records.TeamRecord{
		ID:        uuid.New(),
		Name:      name,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewProjectRecord(teamID uuid.UUID, name string) records.ProjectRecord {
	now := time.Now().UTC()
	return records.ProjectRecord{
		ID:        uuid.New(),
		Name:      name,
		Status:    "planning",
		TeamID:    teamID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTaskRecord(projectID uuid.UUID, title string) records.TaskRecord {
	now := time.Now().UTC()
	return records.TaskRecord{
		ID:        uuid.New(),
		Title:     title,
		Status:    "todo",
		Priority:  "medium",
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
