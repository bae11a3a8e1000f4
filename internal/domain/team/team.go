// Package team implements the Team aggregate: the membership roster and its
// capacity and uniqueness rules. The roster is the single ownership edge;
// members are referenced by user id only.
package team

import (
	"strings"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/policy"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

func (s Status) IsValid() bool { return s == StatusActive || s == StatusArchived }

func (s Status) String() string { return string(s) }

const (
	NameMinLen        = 2
	NameMaxLen        = 100
	DescriptionMaxLen = 1000
	// MaxMembers caps the roster size.
	MaxMembers = 50
)

// Member is one roster entry: who, in what role, since when.
type Member struct {
	userID   ids.UserID
	role     user.TeamRole
	joinedAt time.Time
}

func (m Member) UserID() ids.UserID  { return m.userID }
func (m Member) Role() user.TeamRole { return m.role }
func (m Member) JoinedAt() time.Time { return m.joinedAt }

type Team struct {
	events.Recorder

	id          ids.TeamID
	name        string
	description string
	status      Status
	members     []Member

	createdAt time.Time
	updatedAt time.Time
	createdBy *ids.UserID
	updatedBy *ids.UserID
}

// New creates a team. Name uniqueness across teams is a storage concern; the
// aggregate checks shape only.
func New(name, description string, creator *user.User) (*Team, error) {
	if err := validateDetails(name, description); err != nil {
		return nil, err
	}
	if err := user.RequireActor(creator); err != nil {
		return nil, err
	}
	if !policy.CanCreateTeams(creator) {
		return nil, validate.Permission("only admins and project managers may create teams")
	}
	now := time.Now().UTC()
	creatorID := creator.ID()
	t := &Team{
		id:          ids.NewTeamID(),
		name:        strings.TrimSpace(name),
		description: strings.TrimSpace(description),
		status:      StatusActive,
		createdAt:   now,
		updatedAt:   now,
		createdBy:   &creatorID,
	}
	t.Record(events.TeamCreated{
		Base:   events.NewBase(creatorID),
		TeamID: t.id,
		Name:   t.name,
	})
	return t, nil
}

func validateDetails(name, description string) error {
	return validate.All(
		validate.NotBlank("name", name),
		validate.MinLength("name", name, NameMinLen),
		validate.MaxLength("name", name, NameMaxLen),
		validate.MaxLength("description", description, DescriptionMaxLen),
	)
}

func (t *Team) ID() ids.TeamID       { return t.id }
func (t *Team) Name() string         { return t.name }
func (t *Team) Description() string  { return t.description }
func (t *Team) Status() Status       { return t.status }
func (t *Team) CreatedAt() time.Time { return t.createdAt }
func (t *Team) UpdatedAt() time.Time { return t.updatedAt }

func (t *Team) MemberCount() int { return len(t.members) }

func (t *Team) Members() []Member {
	out := make([]Member, len(t.members))
	copy(out, t.members)
	return out
}

func (t *Team) IsMember(userID ids.UserID) bool {
	_, ok := t.memberIndex(userID)
	return ok
}

// MemberRoleOf returns the roster role for userID, if present.
func (t *Team) MemberRoleOf(userID ids.UserID) (user.TeamRole, bool) {
	i, ok := t.memberIndex(userID)
	if !ok {
		return "", false
	}
	return t.members[i].role, true
}

func (t *Team) memberIndex(userID ids.UserID) (int, bool) {
	for i, m := range t.members {
		if m.userID == userID {
			return i, true
		}
	}
	return 0, false
}

// UpdateDetails renames the team or changes its description.
func (t *Team) UpdateDetails(name, description string, actor *user.User) error {
	if err := validateDetails(name, description); err != nil {
		return err
	}
	if err := t.requireManager(actor); err != nil {
		return err
	}
	t.name = strings.TrimSpace(name)
	t.description = strings.TrimSpace(description)
	t.touch(actor.ID())
	return nil
}

// AddMember adds an active user to the roster.
func (t *Team) AddMember(candidate *user.User, role user.TeamRole, actor *user.User) error {
	if candidate == nil {
		return validate.Argument("candidate", "must not be nil")
	}
	if !role.IsValid() {
		return validate.Argument("role", "unknown team role")
	}
	if err := t.requireManager(actor); err != nil {
		return err
	}
	if candidate.Status() != user.StatusActive {
		return validate.Rulef("user %s is %s; only active users may join a team", candidate.ID(), candidate.Status())
	}
	if t.IsMember(candidate.ID()) {
		return validate.Rulef("user %s is already a member of team %s", candidate.ID(), t.name)
	}
	if len(t.members) >= MaxMembers {
		return validate.Rulef("team %s is full (max %d members)", t.name, MaxMembers)
	}
	t.members = append(t.members, Member{
		userID:   candidate.ID(),
		role:     role,
		joinedAt: time.Now().UTC(),
	})
	t.touch(actor.ID())
	t.Record(events.TeamMemberAdded{
		Base:   events.NewBase(actor.ID()),
		TeamID: t.id,
		UserID: candidate.ID(),
		Role:   role.String(),
	})
	return nil
}

func (t *Team) RemoveMember(userID ids.UserID, actor *user.User) error {
	if userID.IsZero() {
		return validate.Argument("userID", "must not be zero")
	}
	if err := t.requireManager(actor); err != nil {
		return err
	}
	i, ok := t.memberIndex(userID)
	if !ok {
		return validate.Rulef("user %s is not a member of team %s", userID, t.name)
	}
	t.members = append(t.members[:i], t.members[i+1:]...)
	t.touch(actor.ID())
	t.Record(events.TeamMemberRemoved{
		Base:   events.NewBase(actor.ID()),
		TeamID: t.id,
		UserID: userID,
	})
	return nil
}

func (t *Team) ChangeMemberRole(userID ids.UserID, newRole user.TeamRole, actor *user.User) error {
	if !newRole.IsValid() {
		return validate.Argument("newRole", "unknown team role")
	}
	if err := t.requireManager(actor); err != nil {
		return err
	}
	i, ok := t.memberIndex(userID)
	if !ok {
		return validate.Rulef("user %s is not a member of team %s", userID, t.name)
	}
	if t.members[i].role == newRole {
		return nil
	}
	from := t.members[i].role
	t.members[i].role = newRole
	t.touch(actor.ID())
	t.Record(events.TeamMemberRoleChanged{
		Base:     events.NewBase(actor.ID()),
		TeamID:   t.id,
		UserID:   userID,
		FromRole: from.String(),
		ToRole:   newRole.String(),
	})
	return nil
}

// EnsureDeletable gates deletion on the project count supplied by the caller;
// the aggregate does not query projects itself.
func (t *Team) EnsureDeletable(ownedProjects int, actor *user.User) error {
	if err := validate.PositiveOrZero("ownedProjects", ownedProjects); err != nil {
		return err
	}
	if err := t.requireManager(actor); err != nil {
		return err
	}
	if ownedProjects > 0 {
		return validate.Rulef("team %s owns %d project(s) and cannot be deleted", t.name, ownedProjects)
	}
	return nil
}

func (t *Team) requireManager(actor *user.User) error {
	if err := user.RequireActor(actor); err != nil {
		return err
	}
	if !policy.CanManageTeam(actor, t.id) {
		return validate.Permissionf("user %s may not manage team %s", actor.ID(), t.name)
	}
	return nil
}

func (t *Team) touch(actor ids.UserID) {
	t.updatedAt = time.Now().UTC()
	t.updatedBy = &actor
}

// MemberSnapshot is the persistence view of one roster entry.
type MemberSnapshot struct {
	UserID   ids.UserID
	Role     user.TeamRole
	JoinedAt time.Time
}

type Snapshot struct {
	ID          ids.TeamID
	Name        string
	Description string
	Status      Status
	Members     []MemberSnapshot
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   *ids.UserID
	UpdatedBy   *ids.UserID
}

func FromSnapshot(s Snapshot) *Team {
	members := make([]Member, 0, len(s.Members))
	for _, m := range s.Members {
		members = append(members, Member{userID: m.UserID, role: m.Role, joinedAt: m.JoinedAt})
	}
	return &Team{
		id:          s.ID,
		name:        s.Name,
		description: s.Description,
		status:      s.Status,
		members:     members,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
		createdBy:   s.CreatedBy,
		updatedBy:   s.UpdatedBy,
	}
}

func (t *Team) Snapshot() Snapshot {
	members := make([]MemberSnapshot, 0, len(t.members))
	for _, m := range t.members {
		members = append(members, MemberSnapshot{UserID: m.userID, Role: m.role, JoinedAt: m.joinedAt})
	}
	return Snapshot{
		ID:          t.id,
		Name:        t.name,
		Description: t.description,
		Status:      t.status,
		Members:     members,
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
		CreatedBy:   t.createdBy,
		UpdatedBy:   t.updatedBy,
	}
}
