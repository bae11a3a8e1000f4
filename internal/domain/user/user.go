// Package user implements the User aggregate: identity, global role, team
// memberships and activation state. State is encapsulated; mutation goes
// through the behavior methods, which validate first and mutate last.
package user

import (
	"strings"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleDeveloper      Role = "developer"
	RoleViewer         Role = "viewer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleDeveloper, RoleViewer:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", validate.Argument("role", "unknown role")
	}
	return r, nil
}

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusPending:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// TeamRole is a user's role within one team roster.
type TeamRole string

const (
	TeamRoleLead   TeamRole = "lead"
	TeamRoleMember TeamRole = "member"
)

func (r TeamRole) IsValid() bool {
	return r == TeamRoleLead || r == TeamRoleMember
}

func (r TeamRole) String() string { return string(r) }

func ParseTeamRole(s string) (TeamRole, error) {
	r := TeamRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", validate.Argument("teamRole", "unknown team role")
	}
	return r, nil
}

// TeamMembership is the membership view the permission resolver attaches to a
// loaded user. The Team aggregate owns the authoritative roster.
type TeamMembership struct {
	TeamID   ids.TeamID
	Role     TeamRole
	JoinedAt time.Time
}

const (
	NameMinLen = 2
	NameMaxLen = 100
)

type User struct {
	events.Recorder

	id          ids.UserID
	name        string
	email       string
	role        Role
	status      Status
	memberships []TeamMembership

	createdAt time.Time
	updatedAt time.Time
	createdBy *ids.UserID
	updatedBy *ids.UserID
}

// New creates a user. The admin-only gate on user creation is enforced by the
// caller context (policy.CanCreateUsers); the aggregate only validates input.
func New(name, email string, role Role, createdBy ids.UserID) (*User, error) {
	if err := validateProfile(name, email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, validate.Argument("role", "unknown role")
	}
	now := time.Now().UTC()
	u := &User{
		id:        ids.NewUserID(),
		name:      strings.TrimSpace(name),
		email:     strings.ToLower(strings.TrimSpace(email)),
		role:      role,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
		createdBy: &createdBy,
	}
	u.Record(events.UserCreated{
		Base:   events.NewBase(createdBy),
		UserID: u.id,
		Role:   role.String(),
	})
	return u, nil
}

func validateProfile(name, email string) error {
	return validate.All(
		validate.NotBlank("name", name),
		validate.MinLength("name", name, NameMinLen),
		validate.MaxLength("name", name, NameMaxLen),
		validate.Email("email", email),
	)
}

func (u *User) ID() ids.UserID         { return u.id }
func (u *User) Name() string           { return u.name }
func (u *User) Email() string          { return u.email }
func (u *User) Role() Role             { return u.role }
func (u *User) Status() Status         { return u.status }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }
func (u *User) CreatedBy() *ids.UserID { return u.createdBy }

func (u *User) IsAdmin() bool  { return u.role == RoleAdmin }
func (u *User) IsActive() bool { return u.status == StatusActive }

// CanBeAssignedTasks reports whether tasks may be assigned to this user.
// Suspended and Inactive users never qualify.
func (u *User) CanBeAssignedTasks() bool {
	return u.status != StatusInactive && u.status != StatusSuspended
}

// Memberships returns the team membership view attached at load time.
func (u *User) Memberships() []TeamMembership {
	out := make([]TeamMembership, len(u.memberships))
	copy(out, u.memberships)
	return out
}

// MembershipIn looks up this user's role within the given team.
func (u *User) MembershipIn(teamID ids.TeamID) (TeamRole, bool) {
	for _, m := range u.memberships {
		if m.TeamID == teamID {
			return m.Role, true
		}
	}
	return "", false
}

// AttachMemberships replaces the membership view. Called by the loader that
// assembles the fully populated user handed into permission checks.
func (u *User) AttachMemberships(memberships []TeamMembership) {
	u.memberships = append([]TeamMembership(nil), memberships...)
}

// UpdateProfile changes name and email. A user may edit their own profile;
// admins may edit anyone's.
func (u *User) UpdateProfile(name, email string, actor *User) error {
	if err := validateProfile(name, email); err != nil {
		return err
	}
	if err := requireActingUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.id != u.id {
		return validate.Permission("only admins may edit another user's profile")
	}
	u.name = strings.TrimSpace(name)
	u.email = strings.ToLower(strings.TrimSpace(email))
	u.touch(actor.id)
	return nil
}

// ChangeRole is admin-only and never legal on oneself.
func (u *User) ChangeRole(newRole Role, actor *User) error {
	if !newRole.IsValid() {
		return validate.Argument("newRole", "unknown role")
	}
	if err := requireActingUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return validate.Permission("only admins may change user roles")
	}
	if actor.id == u.id {
		return validate.Rule("users cannot change their own role")
	}
	if u.role == newRole {
		return nil
	}
	from := u.role
	u.role = newRole
	u.touch(actor.id)
	u.Record(events.UserRoleChanged{
		Base:     events.NewBase(actor.id),
		UserID:   u.id,
		FromRole: from.String(),
		ToRole:   newRole.String(),
	})
	return nil
}

// Activate moves the user to Active. Admins may activate anyone; a user may
// reactivate themself only out of Inactive, not out of Suspended. Self
// reactivation is the one mutation an inactive user may perform.
func (u *User) Activate(actor *User) error {
	if actor == nil {
		return validate.Argument("actor", "must not be nil")
	}
	if actor.id == u.id {
		if u.status == StatusSuspended {
			return validate.Rule("suspended users cannot reactivate themselves")
		}
		return u.setStatus(StatusActive, actor)
	}
	if err := requireActingUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return validate.Permission("only admins may activate another user")
	}
	return u.setStatus(StatusActive, actor)
}

// Deactivate moves the user to Inactive; allowed for admins and for the user
// themself.
func (u *User) Deactivate(actor *User) error {
	if err := requireActingUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.id != u.id {
		return validate.Permission("only admins may deactivate another user")
	}
	return u.setStatus(StatusInactive, actor)
}

// Suspend is admin-only and never legal on oneself.
func (u *User) Suspend(actor *User) error {
	if err := requireActingUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return validate.Permission("only admins may suspend users")
	}
	if actor.id == u.id {
		return validate.Rule("admins cannot suspend themselves")
	}
	return u.setStatus(StatusSuspended, actor)
}

func (u *User) setStatus(to Status, actor *User) error {
	if u.status == to {
		return nil
	}
	from := u.status
	u.status = to
	u.touch(actor.id)
	u.Record(events.UserStatusChanged{
		Base:       events.NewBase(actor.id),
		UserID:     u.id,
		FromStatus: from.String(),
		ToStatus:   to.String(),
	})
	return nil
}

func (u *User) touch(actor ids.UserID) {
	u.updatedAt = time.Now().UTC()
	u.updatedBy = &actor
}

// requireActingUser is the shared guard: a missing, inactive or suspended
// actor may not perform mutating operations.
func requireActingUser(actor *User) error {
	if actor == nil {
		return validate.Argument("actor", "must not be nil")
	}
	if actor.status == StatusInactive || actor.status == StatusSuspended {
		return validate.Permissionf("user %s is %s and cannot perform this operation", actor.id, actor.status)
	}
	return nil
}

// RequireActor exposes the acting-user guard to sibling aggregate packages.
func RequireActor(actor *User) error { return requireActingUser(actor) }

// Snapshot is the exported persistence view of a user. FromSnapshot and
// Snapshot let the data layer rebuild and extract state without widening the
// aggregate's mutation API.
type Snapshot struct {
	ID          ids.UserID
	Name        string
	Email       string
	Role        Role
	Status      Status
	Memberships []TeamMembership
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   *ids.UserID
	UpdatedBy   *ids.UserID
}

func FromSnapshot(s Snapshot) *User {
	return &User{
		id:          s.ID,
		name:        s.Name,
		email:       s.Email,
		role:        s.Role,
		status:      s.Status,
		memberships: append([]TeamMembership(nil), s.Memberships...),
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
		createdBy:   s.CreatedBy,
		updatedBy:   s.UpdatedBy,
	}
}

func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:          u.id,
		Name:        u.name,
		Email:       u.email,
		Role:        u.role,
		Status:      u.status,
		Memberships: u.Memberships(),
		CreatedAt:   u.createdAt,
		UpdatedAt:   u.updatedAt,
		CreatedBy:   u.createdBy,
		UpdatedBy:   u.updatedBy,
	}
}
