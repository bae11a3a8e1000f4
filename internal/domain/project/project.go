// Package project implements the Project aggregate. A project belongs to one
// team and moves through the Planning/Active/OnHold/Completed/Cancelled
// lifecycle under permission-gated transitions. Tasks reference the project by
// id; the aggregate never loads them, so the completion guard takes the
// active-task flag from the caller.
package project

import (
	"strings"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/policy"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

const (
	NameMinLen        = 3
	NameMaxLen        = 150
	DescriptionMaxLen = 2000
)

type Project struct {
	events.Recorder

	id             ids.ProjectID
	name           string
	description    string
	status         Status
	teamID         ids.TeamID
	startDate      *time.Time
	endDate        *time.Time
	plannedEndDate *time.Time

	createdAt time.Time
	updatedAt time.Time
	createdBy *ids.UserID
	updatedBy *ids.UserID
}

// New creates a project in Planning. The creator must be able to manage
// projects for the owning team.
func New(name, description string, teamID ids.TeamID, plannedEndDate *time.Time, creator *user.User) (*Project, error) {
	if err := validateDetails(name, description); err != nil {
		return nil, err
	}
	if teamID.IsZero() {
		return nil, validate.Argument("teamID", "must not be zero")
	}
	now := time.Now().UTC()
	if err := validate.FutureDateOrNil("plannedEndDate", plannedEndDate, now, validate.FutureDateSkew); err != nil {
		return nil, err
	}
	if err := user.RequireActor(creator); err != nil {
		return nil, err
	}
	if !policy.CanManageProject(creator, teamID) {
		return nil, validate.Permissionf("user %s may not create projects for team %s", creator.ID(), teamID)
	}
	creatorID := creator.ID()
	p := &Project{
		id:             ids.NewProjectID(),
		name:           strings.TrimSpace(name),
		description:    strings.TrimSpace(description),
		status:         StatusPlanning,
		teamID:         teamID,
		plannedEndDate: plannedEndDate,
		createdAt:      now,
		updatedAt:      now,
		createdBy:      &creatorID,
	}
	p.Record(events.ProjectCreated{
		Base:      events.NewBase(creatorID),
		ProjectID: p.id,
		TeamID:    teamID,
		Name:      p.name,
	})
	return p, nil
}

func validateDetails(name, description string) error {
	return validate.All(
		validate.NotBlank("name", name),
		validate.MinLength("name", name, NameMinLen),
		validate.MaxLength("name", name, NameMaxLen),
		validate.MaxLength("description", description, DescriptionMaxLen),
	)
}

func (p *Project) ID() ids.ProjectID          { return p.id }
func (p *Project) Name() string               { return p.name }
func (p *Project) Description() string        { return p.description }
func (p *Project) Status() Status             { return p.status }
func (p *Project) TeamID() ids.TeamID         { return p.teamID }
func (p *Project) StartDate() *time.Time      { return p.startDate }
func (p *Project) EndDate() *time.Time        { return p.endDate }
func (p *Project) PlannedEndDate() *time.Time { return p.plannedEndDate }
func (p *Project) CreatedAt() time.Time       { return p.createdAt }
func (p *Project) UpdatedAt() time.Time       { return p.updatedAt }

// Start moves Planning -> Active and stamps the start date.
func (p *Project) Start(actor *user.User) error {
	if err := p.transition(StatusActive, actor); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.startDate = &now
	return nil
}

// PutOnHold moves Active -> OnHold.
func (p *Project) PutOnHold(actor *user.User) error {
	return p.transition(StatusOnHold, actor)
}

// Resume moves OnHold -> Active.
func (p *Project) Resume(actor *user.User) error {
	if p.status != StatusOnHold {
		return validate.Rulef("project %s is %s; only on-hold projects can be resumed", p.name, p.status)
	}
	return p.transition(StatusActive, actor)
}

// Complete moves Active -> Completed. The caller supplies whether active
// tasks remain; completion is rejected while they do.
func (p *Project) Complete(actor *user.User, hasActiveTasks bool) error {
	if err := p.requireManager(actor); err != nil {
		return err
	}
	if hasActiveTasks {
		return validate.Rulef("project %s still has active tasks and cannot be completed", p.name)
	}
	if err := p.transition(StatusCompleted, actor); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.endDate = &now
	return nil
}

// Cancel is legal from any non-terminal status.
func (p *Project) Cancel(actor *user.User) error {
	if err := p.transition(StatusCancelled, actor); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.endDate = &now
	return nil
}

// SetPlannedEndDate changes the planned end. The date must be strictly in the
// future (with the skew buffer) unless the project is already completed.
func (p *Project) SetPlannedEndDate(plannedEndDate *time.Time, actor *user.User) error {
	if err := p.requireManager(actor); err != nil {
		return err
	}
	if p.status != StatusCompleted {
		if err := validate.FutureDateOrNil("plannedEndDate", plannedEndDate, time.Now().UTC(), validate.FutureDateSkew); err != nil {
			return err
		}
	}
	p.plannedEndDate = plannedEndDate
	p.touch(actor.ID())
	return nil
}

// UpdateDetails renames the project or changes its description.
func (p *Project) UpdateDetails(name, description string, actor *user.User) error {
	if err := validateDetails(name, description); err != nil {
		return err
	}
	if err := p.requireManager(actor); err != nil {
		return err
	}
	p.name = strings.TrimSpace(name)
	p.description = strings.TrimSpace(description)
	p.touch(actor.ID())
	return nil
}

// IsOverdue reports whether the planned end has passed on a non-terminal
// project.
func (p *Project) IsOverdue() bool {
	if p.plannedEndDate == nil || p.status.IsTerminal() {
		return false
	}
	return p.plannedEndDate.Before(time.Now().UTC())
}

func (p *Project) transition(to Status, actor *user.User) error {
	if err := p.requireManager(actor); err != nil {
		return err
	}
	if !p.status.CanTransitionTo(to) {
		return validate.Rulef("project %s cannot move from %s to %s", p.name, p.status, to)
	}
	from := p.status
	p.status = to
	p.touch(actor.ID())
	p.Record(events.ProjectStatusChanged{
		Base:       events.NewBase(actor.ID()),
		ProjectID:  p.id,
		FromStatus: from.String(),
		ToStatus:   to.String(),
	})
	return nil
}

func (p *Project) requireManager(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if !policy.CanManageProject(actor, p.teamID) {
		return validate.Permissionf("user %s may not modify project %s", actor.ID(), p.name)
	}
	return nil
}

func (p *Project) touch(actor ids.UserID) {
	p.updatedAt = time.Now().UTC()
	p.updatedBy = &actor
}

type Snapshot struct {
	ID             ids.ProjectID
	Name           string
	Description    string
	Status         Status
	TeamID         ids.TeamID
	StartDate      *time.Time
	EndDate        *time.Time
	PlannedEndDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      *ids.UserID
	UpdatedBy      *ids.UserID
}

func FromSnapshot(s Snapshot) *Project {
	return &Project{
		id:             s.ID,
		name:           s.Name,
		description:    s.Description,
		status:         s.Status,
		teamID:         s.TeamID,
		startDate:      s.StartDate,
		endDate:        s.EndDate,
		plannedEndDate: s.PlannedEndDate,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
		createdBy:      s.CreatedBy,
		updatedBy:      s.UpdatedBy,
	}
}

func (p *Project) Snapshot() Snapshot {
	return Snapshot{
		ID:             p.id,
		Name:           p.name,
		Description:    p.description,
		Status:         p.status,
		TeamID:         p.teamID,
		StartDate:      p.startDate,
		EndDate:        p.endDate,
		PlannedEndDate: p.plannedEndDate,
		CreatedAt:      p.createdAt,
		UpdatedAt:      p.updatedAt,
		CreatedBy:      p.createdBy,
		UpdatedBy:      p.updatedBy,
	}
}
