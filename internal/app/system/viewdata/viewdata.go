// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/crewdeck/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models. Embed it in feature
// view models:
//
//	type pageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	Username   string
	UserName   string // display name

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a populated BaseVM for a page.
//
//   - title: the page title
//   - backDefault: fallback for the back button when the request has none
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, username, name, signedIn := authz.UserCtx(r)

	return BaseVM{
		IsLoggedIn:  signedIn,
		Role:        role,
		Username:    username,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
}
