package team_test

import (
	"testing"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/events"
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/team"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/domain/validate"
)

func seedUser(role user.Role, status user.Status) *user.User {
	now := time.Now().UTC()
	return user.FromSnapshot(user.Snapshot{
		ID:        ids.NewUserID(),
		Name:      "Seed User",
		Email:     "seed@example.com",
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func seedTeam(t *testing.T) (*team.Team, *user.User) {
	t.Helper()
	admin := seedUser(user.RoleAdmin, user.StatusActive)
	tm, err := team.New("Platform", "Owns the platform services", admin)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tm.ClearDomainEvents()
	return tm, admin
}

func TestNewValidatesAndGates(t *testing.T) {
	admin := seedUser(user.RoleAdmin, user.StatusActive)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)

	if _, err := team.New("x", "", admin); !validate.IsArgument(err) {
		t.Fatalf("want argument error for short name, got %v", err)
	}
	if _, err := team.New("Platform", "", dev); !validate.IsPermission(err) {
		t.Fatalf("want permission error for developer creator, got %v", err)
	}
	tm, err := team.New("Platform", "", admin)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	evs := tm.DomainEvents()
	if len(evs) != 1 {
		t.Fatalf("events: want=1 got=%d", len(evs))
	}
	if _, ok := evs[0].(events.TeamCreated); !ok {
		t.Fatalf("expected TeamCreated, got %T", evs[0])
	}
}

func TestAddMember(t *testing.T) {
	tm, admin := seedTeam(t)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)

	if err := tm.AddMember(dev, user.TeamRoleMember, admin); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if !tm.IsMember(dev.ID()) || tm.MemberCount() != 1 {
		t.Fatalf("roster not updated")
	}
	evs := tm.DomainEvents()
	if len(evs) != 1 {
		t.Fatalf("events: want=1 got=%d", len(evs))
	}
	added := evs[0].(events.TeamMemberAdded)
	if added.UserID != dev.ID() || added.TeamID != tm.ID() {
		t.Fatalf("event identity mismatch: %+v", added)
	}
}

func TestAddMemberRejectsDuplicates(t *testing.T) {
	tm, admin := seedTeam(t)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	if err := tm.AddMember(dev, user.TeamRoleMember, admin); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	err := tm.AddMember(dev, user.TeamRoleLead, admin)
	if !validate.IsRule(err) || validate.IsPermission(err) {
		t.Fatalf("want rule error for duplicate, got %v", err)
	}
	if tm.MemberCount() != 1 {
		t.Fatalf("roster size must stay 1")
	}
}

func TestAddMemberRejectsNonActiveUsers(t *testing.T) {
	tm, admin := seedTeam(t)
	for _, status := range []user.Status{user.StatusPending, user.StatusInactive, user.StatusSuspended} {
		candidate := seedUser(user.RoleDeveloper, status)
		if err := tm.AddMember(candidate, user.TeamRoleMember, admin); !validate.IsRule(err) {
			t.Fatalf("status %s: want rule error, got %v", status, err)
		}
	}
	if tm.MemberCount() != 0 {
		t.Fatalf("roster must stay empty")
	}
}

func TestAddMemberPermissionGate(t *testing.T) {
	tm, _ := seedTeam(t)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	outsider := seedUser(user.RoleDeveloper, user.StatusActive)
	if err := tm.AddMember(dev, user.TeamRoleMember, outsider); !validate.IsPermission(err) {
		t.Fatalf("want permission error, got %v", err)
	}

	// A lead of this team may manage its roster.
	lead := seedUser(user.RoleDeveloper, user.StatusActive)
	lead.AttachMemberships([]user.TeamMembership{{TeamID: tm.ID(), Role: user.TeamRoleLead}})
	if err := tm.AddMember(dev, user.TeamRoleMember, lead); err != nil {
		t.Fatalf("AddMember by lead: %v", err)
	}
}

func TestTeamCapacity(t *testing.T) {
	tm, admin := seedTeam(t)
	for i := 0; i < team.MaxMembers-1; i++ {
		member := seedUser(user.RoleDeveloper, user.StatusActive)
		if err := tm.AddMember(member, user.TeamRoleMember, admin); err != nil {
			t.Fatalf("AddMember #%d: %v", i+1, err)
		}
	}
	if tm.MemberCount() != team.MaxMembers-1 {
		t.Fatalf("precondition: want=%d got=%d", team.MaxMembers-1, tm.MemberCount())
	}

	fiftieth := seedUser(user.RoleDeveloper, user.StatusActive)
	if err := tm.AddMember(fiftieth, user.TeamRoleMember, admin); err != nil {
		t.Fatalf("adding member %d should succeed: %v", team.MaxMembers, err)
	}

	fiftyFirst := seedUser(user.RoleDeveloper, user.StatusActive)
	err := tm.AddMember(fiftyFirst, user.TeamRoleMember, admin)
	if !validate.IsRule(err) {
		t.Fatalf("adding member %d must fail with rule error, got %v", team.MaxMembers+1, err)
	}
	if tm.MemberCount() != team.MaxMembers {
		t.Fatalf("roster size: want=%d got=%d", team.MaxMembers, tm.MemberCount())
	}
}

func TestRemoveMember(t *testing.T) {
	tm, admin := seedTeam(t)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	if err := tm.AddMember(dev, user.TeamRoleMember, admin); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	tm.ClearDomainEvents()

	if err := tm.RemoveMember(ids.NewUserID(), admin); !validate.IsRule(err) {
		t.Fatalf("removing a non-member must fail, got %v", err)
	}
	if err := tm.RemoveMember(dev.ID(), admin); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if tm.IsMember(dev.ID()) {
		t.Fatalf("member must be gone")
	}
	evs := tm.DomainEvents()
	if len(evs) != 1 {
		t.Fatalf("events: want=1 got=%d", len(evs))
	}
	if _, ok := evs[0].(events.TeamMemberRemoved); !ok {
		t.Fatalf("expected TeamMemberRemoved, got %T", evs[0])
	}
}

func TestChangeMemberRole(t *testing.T) {
	tm, admin := seedTeam(t)
	dev := seedUser(user.RoleDeveloper, user.StatusActive)
	if err := tm.AddMember(dev, user.TeamRoleMember, admin); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	tm.ClearDomainEvents()

	outsider := seedUser(user.RoleDeveloper, user.StatusActive)
	if err := tm.ChangeMemberRole(dev.ID(), user.TeamRoleLead, outsider); !validate.IsPermission(err) {
		t.Fatalf("want permission error, got %v", err)
	}
	if err := tm.ChangeMemberRole(dev.ID(), user.TeamRoleLead, admin); err != nil {
		t.Fatalf("ChangeMemberRole: %v", err)
	}
	role, _ := tm.MemberRoleOf(dev.ID())
	if role != user.TeamRoleLead {
		t.Fatalf("role: want=lead got=%s", role)
	}
	// Same role again is a no-op without an event.
	tm.ClearDomainEvents()
	if err := tm.ChangeMemberRole(dev.ID(), user.TeamRoleLead, admin); err != nil {
		t.Fatalf("no-op role change: %v", err)
	}
	if len(tm.DomainEvents()) != 0 {
		t.Fatalf("no-op must not emit events")
	}
}

func TestEnsureDeletable(t *testing.T) {
	tm, admin := seedTeam(t)
	if err := tm.EnsureDeletable(2, admin); !validate.IsRule(err) {
		t.Fatalf("team owning projects must not be deletable, got %v", err)
	}
	if err := tm.EnsureDeletable(0, admin); err != nil {
		t.Fatalf("EnsureDeletable: %v", err)
	}
	if err := tm.EnsureDeletable(-1, admin); !validate.IsArgument(err) {
		t.Fatalf("negative count is an argument error, got %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tm, admin := seedTeam(t)
	for i := 0; i < 3; i++ {
		member := seedUser(user.RoleDeveloper, user.StatusActive)
		if err := tm.AddMember(member, user.TeamRoleMember, admin); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}
	snap := tm.Snapshot()
	restored := team.FromSnapshot(snap)
	if restored.ID() != tm.ID() || restored.MemberCount() != 3 {
		t.Fatalf("round trip mismatch: %s %d", restored.ID(), restored.MemberCount())
	}
	for i, m := range restored.Members() {
		want := snap.Members[i]
		if m.UserID() != want.UserID || m.Role() != want.Role {
			t.Fatalf("member %d mismatch", i)
		}
	}
}
