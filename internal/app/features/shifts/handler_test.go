// internal/app/features/shifts/handler_test.go
package shifts_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/features/shifts"
	"github.com/dalemusser/crewdeck/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/crewdeck/internal/app/features/errors"
	"github.com/dalemusser/crewdeck/internal/domain/models"
)

func newTestHandler(t *testing.T) (*shifts.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := shifts.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleCreate_StoresShift(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "alice")

	form := url.Values{
		"date":        {"2026-09-05"},
		"start_time":  {"08:00"},
		"end_time":    {"16:00"},
		"assigned_to": {"alice"},
	}
	req := postForm("/shifts/add", form)
	req = testutil.ManagerSession(req, "steven")
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}

	var s models.Shift
	err := fx.DB().Collection("shifts").FindOne(ctx, bson.M{"assigned_username": "alice"}).Decode(&s)
	if err != nil {
		t.Fatalf("shift not stored: %v", err)
	}
	if s.StartTime != "08:00" || s.EndTime != "16:00" {
		t.Errorf("time = %s–%s, want 08:00–16:00", s.StartTime, s.EndTime)
	}
}

func TestHandleCreate_UnknownUserRejected(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{
		"date":        {"2026-09-05"},
		"start_time":  {"08:00"},
		"end_time":    {"16:00"},
		"assigned_to": {"ghost"},
	}
	req := postForm("/shifts/add", form)
	req = testutil.ManagerSession(req, "steven")
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	n, err := fx.DB().Collection("shifts").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Error("shift stored for unknown user")
	}
}

func TestHandleAttendance_OwnShift(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	shift := fx.CreateShift(ctx, "alice", date)

	form := url.Values{"status": {"attended"}}
	req := postForm("/shifts/"+shift.ID+"/attendance", form)
	req = testutil.MemberSession(req, "alice")
	req = testutil.WithChiURLParam(req, "id", shift.ID)
	rec := httptest.NewRecorder()

	h.HandleAttendance(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}

	var a models.ShiftAttendance
	err := fx.DB().Collection("shift_attendance").FindOne(ctx, bson.M{"shift_id": shift.ID}).Decode(&a)
	if err != nil {
		t.Fatalf("attendance not stored: %v", err)
	}
	if a.Username != "alice" || a.Status != models.AttendanceAttended {
		t.Errorf("attendance = %s/%s, want alice/attended", a.Username, a.Status)
	}
}

func TestHandleAttendance_ForeignShiftForbidden(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	shift := fx.CreateShift(ctx, "alice", date)

	form := url.Values{"status": {"attended"}}
	req := postForm("/shifts/"+shift.ID+"/attendance", form)
	req = testutil.MemberSession(req, "bob")
	req = testutil.WithChiURLParam(req, "id", shift.ID)
	rec := httptest.NewRecorder()

	h.HandleAttendance(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandleRemove_CascadesAttendance(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	shift := fx.CreateShift(ctx, "alice", date)
	if err := h.Shifts.MarkAttendance(ctx, shift.ID, "alice", models.AttendanceAttended); err != nil {
		t.Fatalf("MarkAttendance: %v", err)
	}

	req := postForm("/shifts/"+shift.ID+"/delete", url.Values{})
	req = testutil.ManagerSession(req, "steven")
	req = testutil.WithChiURLParam(req, "id", shift.ID)
	rec := httptest.NewRecorder()

	h.HandleRemove(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	for _, coll := range []string{"shifts", "shift_attendance"} {
		n, err := fx.DB().Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s not cleaned up, %d docs remain", coll, n)
		}
	}
}
