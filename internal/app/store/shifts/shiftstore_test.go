package shiftstore_test

import (
	"errors"
	"testing"
	"time"

	shiftstore "github.com/dalemusser/crewdeck/internal/app/store/shifts"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/crewdeck/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shiftstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wed := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	thu := wed.AddDate(0, 0, 1)

	if _, err := store.Create(ctx, thu, "09:00", "17:00", "bob", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	created, err := store.Create(ctx, wed, "08:00", "12:00", "Alice", "opening shift")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected shift id to be assigned")
	}
	if created.AssignedUsername != "alice" {
		t.Errorf("AssignedUsername: got %q, want %q", created.AssignedUsername, "alice")
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(all))
	}
	if !all[0].Date.Before(all[1].Date) {
		t.Error("shifts not sorted by date")
	}

	mine, err := store.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(mine) != 1 || mine[0].AssignedUsername != "alice" {
		t.Errorf("alice's shifts: got %d", len(mine))
	}
}

func TestStore_MarkAttendance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shiftstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shift := fixtures.CreateShift(ctx, "alice", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))

	if err := store.MarkAttendance(ctx, shift.ID, "alice", models.AttendanceAttended); err != nil {
		t.Fatalf("MarkAttendance failed: %v", err)
	}

	recs, err := store.AttendanceByShift(ctx, []string{shift.ID})
	if err != nil {
		t.Fatalf("AttendanceByShift failed: %v", err)
	}
	if recs[shift.ID].Status != models.AttendanceAttended {
		t.Errorf("status: got %q, want attended", recs[shift.ID].Status)
	}

	// Re-marking replaces, not duplicates.
	if err := store.MarkAttendance(ctx, shift.ID, "alice", models.AttendanceMissed); err != nil {
		t.Fatalf("MarkAttendance failed: %v", err)
	}
	recs, err = store.AttendanceByShift(ctx, []string{shift.ID})
	if err != nil {
		t.Fatalf("AttendanceByShift failed: %v", err)
	}
	if recs[shift.ID].Status != models.AttendanceMissed {
		t.Errorf("status: got %q, want missed", recs[shift.ID].Status)
	}

	// Clearing removes the record.
	if err := store.MarkAttendance(ctx, shift.ID, "alice", models.AttendanceClear); err != nil {
		t.Fatalf("MarkAttendance failed: %v", err)
	}
	recs, err = store.AttendanceByShift(ctx, []string{shift.ID})
	if err != nil {
		t.Fatalf("AttendanceByShift failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected attendance cleared, got %v", recs)
	}
}

func TestStore_MarkAttendance_WrongMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shiftstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shift := fixtures.CreateShift(ctx, "alice", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))

	err := store.MarkAttendance(ctx, shift.ID, "bob", models.AttendanceAttended)
	if !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestStore_MarkAttendance_BadStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shiftstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shift := fixtures.CreateShift(ctx, "alice", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))

	err := store.MarkAttendance(ctx, shift.ID, "alice", "late")
	if !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestStore_Remove_CascadesAttendance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := shiftstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	shift := fixtures.CreateShift(ctx, "alice", time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	if err := store.MarkAttendance(ctx, shift.ID, "alice", models.AttendanceAttended); err != nil {
		t.Fatalf("MarkAttendance failed: %v", err)
	}

	if err := store.Remove(ctx, shift.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove(ctx, shift.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}

	recs, err := store.AttendanceByShift(ctx, []string{shift.ID})
	if err != nil {
		t.Fatalf("AttendanceByShift failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected attendance removed with the shift, got %v", recs)
	}
}
