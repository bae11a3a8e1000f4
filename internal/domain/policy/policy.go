// Package policy holds the permission predicates, kept apart from the
// aggregates' mutation methods so each side can be tested on its own. Every
// predicate takes the acting user as a fully populated snapshot (role plus
// team memberships); nothing here reaches for a repository.
package policy

import (
	"github.com/novahq/taskhub-backend/internal/domain/ids"
	"github.com/novahq/taskhub-backend/internal/domain/user"
)

// CanAct reports whether the actor may perform mutating operations at all.
func CanAct(actor *user.User) bool {
	if actor == nil {
		return false
	}
	return actor.Status() != user.StatusInactive && actor.Status() != user.StatusSuspended
}

// CanCreateUsers gates user creation: admin only.
func CanCreateUsers(actor *user.User) bool {
	return CanAct(actor) && actor.IsAdmin()
}

// CanManageProject reports whether the actor may modify a project owned by
// teamID: an admin, a project manager who is a member of that team, or any
// user whose role within that team is lead.
func CanManageProject(actor *user.User, teamID ids.TeamID) bool {
	if !CanAct(actor) {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	teamRole, isMember := actor.MembershipIn(teamID)
	if !isMember {
		return false
	}
	if actor.Role() == user.RoleProjectManager {
		return true
	}
	return teamRole == user.TeamRoleLead
}

// CanManageTeam gates roster changes on a team: an admin, a project manager,
// or that team's lead.
func CanManageTeam(actor *user.User, teamID ids.TeamID) bool {
	if !CanAct(actor) {
		return false
	}
	if actor.IsAdmin() || actor.Role() == user.RoleProjectManager {
		return true
	}
	teamRole, isMember := actor.MembershipIn(teamID)
	return isMember && teamRole == user.TeamRoleLead
}

// CanCreateTeams gates team creation: admin or project manager.
func CanCreateTeams(actor *user.User) bool {
	if !CanAct(actor) {
		return false
	}
	return actor.IsAdmin() || actor.Role() == user.RoleProjectManager
}

// CanBeAssignedTasks mirrors the user-side predicate for use at call sites
// that only hold the assignee.
func CanBeAssignedTasks(assignee *user.User) bool {
	return assignee != nil && assignee.CanBeAssignedTasks()
}
