// internal/app/features/dashboard/handler_test.go
package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/crewdeck/internal/app/features/dashboard"
	"github.com/dalemusser/crewdeck/internal/testutil"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
)

func TestServeHome_VisitorRedirectsToLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := dashboard.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHome(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}
