// internal/app/system/auth/auth_test.go
package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/crewdeck/internal/app/system/auth"
	"go.uber.org/zap"
)

const testSessionKey = "0123456789ABCDEF0123456789ABCDEF"

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	mgr, err := auth.NewSessionManager(testSessionKey, "crewdeck-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return mgr
}

func TestNewSessionManager_EmptyKeyRejected(t *testing.T) {
	if _, err := auth.NewSessionManager("", "crewdeck-session", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignInThenLoadSessionUser(t *testing.T) {
	mgr := newManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	u := auth.SessionUser{Username: "alice", Name: "Alice", Role: "member"}
	if err := mgr.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookie := rec.Result().Cookies()
	if len(cookie) == 0 {
		t.Fatal("SignIn set no cookie")
	}

	next := httptest.NewRequest("GET", "/tasks", nil)
	for _, c := range cookie {
		next.AddCookie(c)
	}

	var got *auth.SessionUser
	mgr.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), next)

	if got == nil {
		t.Fatal("no user loaded from session cookie")
	}
	if got.Username != "alice" || got.Role != "member" {
		t.Errorf("loaded user = %+v, want alice/member", got)
	}
}

func TestLoadSessionUser_GarbageCookieIsSignedOut(t *testing.T) {
	mgr := newManager(t)

	req := httptest.NewRequest("GET", "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "crewdeck-session", Value: "not-a-valid-session"})
	rec := httptest.NewRecorder()

	called := false
	mgr.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("garbage cookie produced a signed-in user")
		}
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatal("request did not reach the handler")
	}
}

func TestRequireSignedIn_RedirectsVisitors(t *testing.T) {
	mgr := newManager(t)

	req := httptest.NewRequest("GET", "/tasks", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	mgr.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("visitor reached a protected handler")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=%2Ftasks" {
		t.Errorf("Location = %q, want login redirect with return", loc)
	}
}
