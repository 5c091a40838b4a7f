package tasks_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/app/features/tasks"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/crewdeck/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*tasks.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := tasks.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestHandleCreate_Redirects(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "alice")

	form := url.Values{
		"text":        {"Restock shelves"},
		"priority":    {"High"},
		"assigned_to": {"alice"},
		"due":         {"2026-09-15"},
	}
	req := httptest.NewRequest("POST", "/tasks/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.ManagerSession(req, "steven")

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var task models.Task
	if err := fixtures.DB().Collection("tasks").FindOne(ctx, bson.M{"text": "Restock shelves"}).Decode(&task); err != nil {
		t.Fatalf("task not created: %v", err)
	}
	if task.AssignedUsername != "alice" || task.Owner != "steven" {
		t.Errorf("task: assigned=%q owner=%q", task.AssignedUsername, task.Owner)
	}
}

func TestHandleToggle_MemberOwnTask(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateMember(ctx, "alice")
	task := fixtures.CreateTask(ctx, "Sweep floor", models.PriorityMedium, "alice", nil)

	req := httptest.NewRequest("POST", "/tasks/toggle/"+task.ID.Hex(), nil)
	req = testutil.MemberSession(req, "alice")
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleToggle(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var got models.Task
	if err := fixtures.DB().Collection("tasks").FindOne(ctx, bson.M{"_id": task.ID}).Decode(&got); err != nil {
		t.Fatalf("load task: %v", err)
	}
	if !got.Done || got.CompletedBy != "alice" {
		t.Errorf("task after toggle: done=%v completed_by=%q", got.Done, got.CompletedBy)
	}

	// The assignee's lifetime counter moved.
	var u models.User
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"username": "alice"}).Decode(&u); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u.TotalTasksCompleted != 1 {
		t.Errorf("TotalTasksCompleted: got %d, want 1", u.TotalTasksCompleted)
	}
}

func TestHandleToggle_MemberForeignTask(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Bob's task", models.PriorityMedium, "bob", nil)

	req := httptest.NewRequest("POST", "/tasks/toggle/"+task.ID.Hex(), nil)
	req = testutil.MemberSession(req, "alice")
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleToggle(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	var got models.Task
	if err := fixtures.DB().Collection("tasks").FindOne(ctx, bson.M{"_id": task.ID}).Decode(&got); err != nil {
		t.Fatalf("load task: %v", err)
	}
	if got.Done {
		t.Error("task must stay untouched after a denied toggle")
	}
}

func TestHandleRemove_Redirects(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Doomed", models.PriorityLow, "alice", nil)

	req := httptest.NewRequest("POST", "/tasks/remove/"+task.ID.Hex(), nil)
	req = testutil.ManagerSession(req, "steven")
	req = testutil.WithChiURLParam(req, "id", task.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleRemove(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	n, err := fixtures.DB().Collection("tasks").CountDocuments(ctx, bson.M{"_id": task.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Error("task still present after remove")
	}
}
