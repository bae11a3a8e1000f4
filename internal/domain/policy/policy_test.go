package policy_test

import (
	"testing"
	"time"

	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/policy"
	"github.com/novahq/taskhub-backend/internal/domain/user"
)

func seedUser(role user.Role, status user.Status, memberships ...user.TeamMembership) *user.User {
	now := time.Now().UTC()
	u := user.FromSnapshot(user.Snapshot{
		ID:        ids.NewUserID(),
		Name:      "Seed User",
		Email:     "seed@example.com",
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	u.AttachMemberships(memberships)
	return u
}

func TestCanAct(t *testing.T) {
	if policy.CanAct(nil) {
		t.Fatalf("nil actor may never act")
	}
	if !policy.CanAct(seedUser(user.RoleViewer, user.StatusActive)) {
		t.Fatalf("active user should act")
	}
	if !policy.CanAct(seedUser(user.RoleViewer, user.StatusPending)) {
		t.Fatalf("pending user should act")
	}
	if policy.CanAct(seedUser(user.RoleAdmin, user.StatusSuspended)) {
		t.Fatalf("suspended user may never act")
	}
	if policy.CanAct(seedUser(user.RoleAdmin, user.StatusInactive)) {
		t.Fatalf("inactive user may never act")
	}
}

func TestCanCreateUsers(t *testing.T) {
	if !policy.CanCreateUsers(seedUser(user.RoleAdmin, user.StatusActive)) {
		t.Fatalf("admin should create users")
	}
	if policy.CanCreateUsers(seedUser(user.RoleProjectManager, user.StatusActive)) {
		t.Fatalf("project manager must not create users")
	}
}

func TestCanManageProject(t *testing.T) {
	teamID := ids.NewTeamID()
	otherTeam := ids.NewTeamID()
	member := user.TeamMembership{TeamID: teamID, Role: user.TeamRoleMember}
	lead := user.TeamMembership{TeamID: teamID, Role: user.TeamRoleLead}

	cases := []struct {
		name  string
		actor *user.User
		want  bool
	}{
		{"admin without membership", seedUser(user.RoleAdmin, user.StatusActive), true},
		{"pm member of team", seedUser(user.RoleProjectManager, user.StatusActive, member), true},
		{"pm outside team", seedUser(user.RoleProjectManager, user.StatusActive), false},
		{"team lead developer", seedUser(user.RoleDeveloper, user.StatusActive, lead), true},
		{"plain developer member", seedUser(user.RoleDeveloper, user.StatusActive, member), false},
		{"viewer member", seedUser(user.RoleViewer, user.StatusActive, member), false},
		{"suspended admin", seedUser(user.RoleAdmin, user.StatusSuspended), false},
		{"lead of another team", seedUser(user.RoleDeveloper, user.StatusActive, user.TeamMembership{TeamID: otherTeam, Role: user.TeamRoleLead}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.CanManageProject(tc.actor, teamID); got != tc.want {
				t.Fatalf("want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestCanManageTeam(t *testing.T) {
	teamID := ids.NewTeamID()
	lead := user.TeamMembership{TeamID: teamID, Role: user.TeamRoleLead}
	member := user.TeamMembership{TeamID: teamID, Role: user.TeamRoleMember}

	if !policy.CanManageTeam(seedUser(user.RoleAdmin, user.StatusActive), teamID) {
		t.Fatalf("admin manages any team")
	}
	if !policy.CanManageTeam(seedUser(user.RoleProjectManager, user.StatusActive), teamID) {
		t.Fatalf("project manager manages teams")
	}
	if !policy.CanManageTeam(seedUser(user.RoleDeveloper, user.StatusActive, lead), teamID) {
		t.Fatalf("team lead manages own team")
	}
	if policy.CanManageTeam(seedUser(user.RoleDeveloper, user.StatusActive, member), teamID) {
		t.Fatalf("plain member must not manage the team")
	}
}

func TestCanCreateTeams(t *testing.T) {
	if !policy.CanCreateTeams(seedUser(user.RoleProjectManager, user.StatusActive)) {
		t.Fatalf("project manager should create teams")
	}
	if policy.CanCreateTeams(seedUser(user.RoleDeveloper, user.StatusActive)) {
		t.Fatalf("developer must not create teams")
	}
}
