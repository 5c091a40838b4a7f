// internal/domain/models/user.go
package models

import (
	"strings"
	"time"
)

// Roles understood by the app. Every signed-in user is exactly one of these.
const (
	RoleManager = "manager"
	RoleMember  = "member"
)

// User represents managers and team members.
//
// NOTE:
//   - Username is the stable identity (folded lowercase, unique index).
//   - Titles live directly on the user; the titles collection is the
//     registry of names a manager may hand out.
type User struct {
	Username     string   `bson:"username" json:"username"`
	DisplayName  string   `bson:"display_name" json:"display_name"`
	PasswordHash string   `bson:"password_hash,omitempty" json:"-"`
	Role         string   `bson:"role" json:"role"` // manager | member
	Titles       []string `bson:"titles" json:"titles"`

	TotalTasksCompleted int `bson:"total_tasks_completed" json:"total_tasks_completed"`

	JoinDate  time.Time `bson:"join_date" json:"join_date"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool { return u.Role == RoleManager }

// HasTitle reports whether the user currently holds the given title
// (case-insensitive).
func (u *User) HasTitle(title string) bool {
	for _, t := range u.Titles {
		if strings.EqualFold(t, title) {
			return true
		}
	}
	return false
}

// IsValidRole checks a role string against the known roles.
func IsValidRole(role string) bool {
	return role == RoleManager || role == RoleMember
}
