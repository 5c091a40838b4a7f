package titlestore_test

import (
	"errors"
	"testing"

	titlestore "github.com/dalemusser/crewdeck/internal/app/store/titles"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := titlestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "Shift Lead", "steven")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Name != "Shift Lead" {
		t.Errorf("Name: got %q, want %q", created.Name, "Shift Lead")
	}
	if created.NameCI != "shift lead" {
		t.Errorf("NameCI: got %q, want %q", created.NameCI, "shift lead")
	}
	if created.CreatedBy != "steven" {
		t.Errorf("CreatedBy: got %q, want %q", created.CreatedBy, "steven")
	}
}

func TestStore_Create_DuplicateCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := titlestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Cashier", "steven"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "CASHIER", "steven"); err != titlestore.ErrDuplicateTitle {
		t.Errorf("expected ErrDuplicateTitle for case-variant, got %v", err)
	}
}

func TestStore_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := titlestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTitle(ctx, "Stocker")

	ok, err := store.Exists(ctx, "stocker")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("expected title to exist regardless of case")
	}

	ok, err = store.Exists(ctx, "Janitor")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("unknown title should not exist")
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := titlestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTitle(ctx, "Cashier")

	if err := store.Remove(ctx, "cashier"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove(ctx, "cashier"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestStore_List_Sorted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := titlestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateTitle(ctx, "Stocker")
	fixtures.CreateTitle(ctx, "Cashier")

	titles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(titles))
	}
	if titles[0].Name != "Cashier" || titles[1].Name != "Stocker" {
		t.Errorf("titles not sorted: %q, %q", titles[0].Name, titles[1].Name)
	}
}
