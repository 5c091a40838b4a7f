package testutil

import (
	"context"
	"net/http"

	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ManagerSession returns a request carrying a signed-in manager, as if the
// session middleware had run.
func ManagerSession(r *http.Request, username string) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		Username: username,
		Name:     username,
		Role:     "manager",
	})
}

// MemberSession returns a request carrying a signed-in member.
func MemberSession(r *http.Request, username string) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		Username: username,
		Name:     username,
		Role:     "member",
	})
}
