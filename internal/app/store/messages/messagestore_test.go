package messagestore_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	groupstore "github.com/dalemusser/crewdeck/internal/app/store/groups"
	messagestore "github.com/dalemusser/crewdeck/internal/app/store/messages"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_PostAndHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	groups := groupstore.New(db)
	store := messagestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Morning Crew", "steven", "alice")

	for i := 0; i < 3; i++ {
		seq, ts, err := groups.ClaimMessageSeq(ctx, g.ID)
		if err != nil {
			t.Fatalf("ClaimMessageSeq failed: %v", err)
		}
		if _, err := store.Post(ctx, g.ID, seq, ts, "alice", fmt.Sprintf("message %d", i), ""); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	msgs, err := store.History(ctx, g.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Seq != int64(i+1) {
			t.Errorf("message %d: seq %d, want %d", i, m.Seq, i+1)
		}
		if want := fmt.Sprintf("message %d", i); m.Text != want {
			t.Errorf("message %d: text %q, want %q", i, m.Text, want)
		}
		if i > 0 && m.Timestamp.Before(msgs[i-1].Timestamp) {
			t.Errorf("message %d: timestamp ran backwards", i)
		}
	}
}

func TestStore_Post_SanitizesMarkup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Morning Crew", "steven")

	m, err := store.Post(ctx, g.ID, 1, time.Now(), "steven", `<script>alert("x")</script>shift swap?`, "")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if m.Text != "shift swap?" {
		t.Errorf("Text: got %q, want markup stripped", m.Text)
	}
}

func TestStore_Post_EmptyRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Morning Crew", "steven")

	if _, err := store.Post(ctx, g.ID, 1, time.Now(), "steven", "   ", ""); !errs.IsValidation(err) {
		t.Errorf("expected validation error for empty text, got %v", err)
	}
}

func TestStore_PinAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Morning Crew", "steven")

	m1, err := store.Post(ctx, g.ID, 1, time.Now(), "steven", "remember the meeting", "")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	m2, err := store.Post(ctx, g.ID, 2, time.Now(), "steven", "never mind", "")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if err := store.SetPinned(ctx, g.ID, m1.ID, true); err != nil {
		t.Fatalf("SetPinned failed: %v", err)
	}
	pinned, err := store.Pinned(ctx, g.ID)
	if err != nil {
		t.Fatalf("Pinned failed: %v", err)
	}
	if len(pinned) != 1 || pinned[0].ID != m1.ID {
		t.Errorf("pinned: got %d messages", len(pinned))
	}

	if err := store.Remove(ctx, g.ID, m2.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove(ctx, g.ID, m2.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}

	msgs, err := store.History(ctx, g.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("expected 1 message after remove, got %d", len(msgs))
	}
}

func TestStore_LatestAndCountSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := messagestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Morning Crew", "steven")

	empty, err := store.Latest(ctx, g.ID)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if empty != nil {
		t.Error("expected nil latest for an empty log")
	}

	for i := 1; i <= 4; i++ {
		if _, err := store.Post(ctx, g.ID, int64(i), time.Now(), "steven", fmt.Sprintf("msg %d", i), ""); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	latest, err := store.Latest(ctx, g.ID)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.Seq != 4 {
		t.Errorf("latest seq: got %v, want 4", latest)
	}

	n, err := store.CountSince(ctx, g.ID, 1)
	if err != nil {
		t.Fatalf("CountSince failed: %v", err)
	}
	if n != 3 {
		t.Errorf("unread count: got %d, want 3", n)
	}

	// Messages never leak across groups.
	other := primitive.NewObjectID()
	n, err = store.CountSince(ctx, other, 0)
	if err != nil {
		t.Fatalf("CountSince failed: %v", err)
	}
	if n != 0 {
		t.Errorf("foreign group unread: got %d, want 0", n)
	}
}
