// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"github.com/dalemusser/crewdeck/internal/domain/models"
)

// BelongsTo reports whether a user belongs to a group: explicit roster
// membership, a matching member title, or being the supervisor. Managers
// do not implicitly belong; they manage every group but only belong to
// the ones they supervise or joined.
func BelongsTo(u *models.User, g *models.Group) bool {
	if g.Supervisor == u.Username {
		return true
	}
	if g.HasMember(u.Username) {
		return true
	}
	return g.MemberTitle != "" && u.HasTitle(g.MemberTitle)
}

// CanViewBoard reports whether a user may open a group's board and chat.
// Managers can open any board; everyone else must belong.
func CanViewBoard(u *models.User, g *models.Group) bool {
	if u.IsManager() {
		return true
	}
	return BelongsTo(u, g)
}

// CanPost reports whether a user may post to a group's chat. Members must
// belong; managers may post anywhere they can view.
func CanPost(u *models.User, g *models.Group) bool {
	return CanViewBoard(u, g)
}

// CanManage reports whether a user may change a group's roster, weekly
// tasks or settings, or moderate its chat.
func CanManage(u *models.User, g *models.Group) bool {
	if u.IsManager() {
		return true
	}
	return g.Supervisor == u.Username
}

// ResolveMembers computes the effective roster from the candidate users:
// everyone on the explicit roster plus anyone holding the group's member
// title. Input order is preserved and nobody appears twice.
func ResolveMembers(g *models.Group, users []models.User) []models.User {
	var out []models.User
	for _, u := range users {
		if g.HasMember(u.Username) || (g.MemberTitle != "" && u.HasTitle(g.MemberTitle)) {
			out = append(out, u)
		}
	}
	return out
}
