// internal/app/features/titles/handler_test.go
package titles_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/crewdeck/internal/app/features/titles"
	"github.com/dalemusser/crewdeck/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/domain/models"
)

func newTestHandler(t *testing.T) (*titles.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := titles.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleUpdate_AssignRegisteredTitle(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "alice")
	fx.CreateTitle(ctx, "Cashier")

	form := url.Values{"username": {"alice"}, "title": {"Cashier"}, "action": {"assign"}}
	req := postForm("/titles/update", form)
	req = testutil.ManagerSession(req, "steven")
	rec := httptest.NewRecorder()

	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}

	var u models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"username": "alice"}).Decode(&u); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !u.HasTitle("Cashier") {
		t.Errorf("titles = %v, want Cashier assigned", u.Titles)
	}
}

func TestHandleUpdate_UnregisteredTitleRejected(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "alice")

	form := url.Values{"username": {"alice"}, "title": {"Wizard"}, "action": {"assign"}}
	req := postForm("/titles/update", form)
	req = testutil.ManagerSession(req, "steven")
	rec := httptest.NewRecorder()

	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRemove_StripsHolders(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "alice", "Cashier")
	fx.CreateMember(ctx, "bob", "Cashier", "Stocker")
	fx.CreateTitle(ctx, "Cashier")

	form := url.Values{"name": {"Cashier"}}
	req := postForm("/titles/delete", form)
	req = testutil.ManagerSession(req, "steven")
	rec := httptest.NewRecorder()

	h.HandleRemove(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}

	n, err := fx.DB().Collection("users").CountDocuments(ctx, bson.M{"titles": "Cashier"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("%d users still hold the removed title", n)
	}
	var bob models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"username": "bob"}).Decode(&bob); err != nil {
		t.Fatalf("load bob: %v", err)
	}
	if !bob.HasTitle("Stocker") {
		t.Error("unrelated title stripped in cascade")
	}
}
