// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/crewdeck/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), username, display name, and
// a found flag. If no user is present in context it returns
// ("visitor", "", "", false), so ok=true always means a signed-in user.
func UserCtx(r *http.Request) (role, username, name string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", false
	}
	return strings.ToLower(u.Role), u.Username, u.Name, true
}

// IsManager reports whether the current request's user is a manager.
func IsManager(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "manager"
}

// IsMember reports whether the current request's user is a member.
func IsMember(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "member"
}

// Username returns the signed-in username, or "" for visitors.
func Username(r *http.Request) string {
	_, uname, _, _ := UserCtx(r)
	return uname
}
