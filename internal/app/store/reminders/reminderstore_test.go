package reminderstore_test

import (
	"errors"
	"testing"
	"time"

	reminderstore "github.com/dalemusser/crewdeck/internal/app/store/reminders"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/testutil"
)

func TestStore_AddAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reminderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	due := time.Now().UTC().AddDate(0, 0, 1)
	if _, err := store.Add(ctx, "alice", "order name tags", &due); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "alice", "call supplier", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "bob", "bob's reminder", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	mine, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("alice's reminders: got %d, want 2", len(mine))
	}
	for _, r := range mine {
		if r.Username != "alice" {
			t.Errorf("reminder leaked from %q", r.Username)
		}
	}
}

func TestStore_Add_EmptyText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reminderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Add(ctx, "alice", "   ", nil); !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestStore_Toggle_OwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reminderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, err := store.Add(ctx, "alice", "water plants", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Another user cannot touch it.
	if err := store.Toggle(ctx, "bob", r.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign toggle, got %v", err)
	}

	if err := store.Toggle(ctx, "alice", r.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	list, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || !list[0].Done {
		t.Errorf("expected reminder done, got %+v", list)
	}
}

func TestStore_Remove_OwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reminderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, err := store.Add(ctx, "alice", "file timesheet", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := store.Remove(ctx, "bob", r.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign remove, got %v", err)
	}
	if err := store.Remove(ctx, "alice", r.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
}
