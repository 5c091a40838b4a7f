package seenstore_test

import (
	"testing"

	seenstore "github.com/dalemusser/crewdeck/internal/app/store/seen"
	"github.com/dalemusser/crewdeck/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := seenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := primitive.NewObjectID()

	// Never-opened logs read as zero.
	seq, err := store.LastSeen(ctx, "alice", group)
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if seq != 0 {
		t.Errorf("fresh marker: got %d, want 0", seq)
	}

	if err := store.MarkRead(ctx, "alice", group, 5); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	seq, err = store.LastSeen(ctx, "alice", group)
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if seq != 5 {
		t.Errorf("marker: got %d, want 5", seq)
	}

	// A stale client cannot move the marker backwards.
	if err := store.MarkRead(ctx, "alice", group, 3); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	seq, err = store.LastSeen(ctx, "alice", group)
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if seq != 5 {
		t.Errorf("marker after stale write: got %d, want 5", seq)
	}
}

func TestStore_Markers_PerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := seenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()

	if err := store.MarkRead(ctx, "alice", g1, 2); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if err := store.MarkRead(ctx, "alice", g2, 7); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if err := store.MarkRead(ctx, "bob", g1, 99); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	markers, err := store.Markers(ctx, "alice")
	if err != nil {
		t.Fatalf("Markers failed: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	if markers[g1] != 2 || markers[g2] != 7 {
		t.Errorf("markers: got %v", markers)
	}
}
