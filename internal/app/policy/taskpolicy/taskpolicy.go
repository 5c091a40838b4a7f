// internal/app/policy/taskpolicy.go
package taskpolicy

import (
	"github.com/dalemusser/crewdeck/internal/domain/models"
)

// CanView reports whether a user may see a task:
// - Managers see every task
// - Members see only tasks assigned to them
func CanView(role, username string, t *models.Task) bool {
	if role == models.RoleManager {
		return true
	}
	return t.AssignedUsername == username
}

// CanToggle reports whether a user may flip a task's done state. The rule
// is the same as visibility: managers anywhere, members only on their own
// assignments.
func CanToggle(role, username string, t *models.Task) bool {
	return CanView(role, username, t)
}

// CanEdit reports whether a user may change a task's text, priority, due
// date or assignment. Only managers can; members are limited to toggling
// and notes on their own tasks.
func CanEdit(role string) bool {
	return role == models.RoleManager
}

// CanEditNotes reports whether a user may update a task's notes. Members
// may annotate their own assignments.
func CanEditNotes(role, username string, t *models.Task) bool {
	if role == models.RoleManager {
		return true
	}
	return t.AssignedUsername == username
}
