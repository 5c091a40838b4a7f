package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data directly in the
// database, bypassing store validation. Use the stores themselves when the
// validation path is what's under test.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateManager inserts a manager user.
func (f *Fixtures) CreateManager(ctx context.Context, username string) models.User {
	return f.createUser(ctx, username, models.RoleManager, nil)
}

// CreateMember inserts a member user holding the given titles.
func (f *Fixtures) CreateMember(ctx context.Context, username string, titles ...string) models.User {
	return f.createUser(ctx, username, models.RoleMember, titles)
}

func (f *Fixtures) createUser(ctx context.Context, username, role string, titles []string) models.User {
	f.t.Helper()

	if titles == nil {
		titles = []string{}
	}
	now := time.Now().UTC()
	u := models.User{
		Username:    text.Fold(username),
		DisplayName: username,
		Role:        role,
		Titles:      titles,
		JoinDate:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture user %q: %v", username, err)
	}
	return u
}

// CreateTask inserts a task assigned to the given username.
func (f *Fixtures) CreateTask(ctx context.Context, text, priority, assignedTo string, due *time.Time) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:               primitive.NewObjectID(),
		Text:             text,
		Priority:         priority,
		AssignedUsername: assignedTo,
		Due:              due,
		Owner:            "steven",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("fixture task %q: %v", text, err)
	}
	return task
}

// CreateGroup inserts a group with the given supervisor and roster.
func (f *Fixtures) CreateGroup(ctx context.Context, name, supervisor string, members ...string) models.Group {
	f.t.Helper()

	roster := append([]string{supervisor}, members...)
	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Supervisor:  supervisor,
		Members:     roster,
		WeeklyTasks: []models.WeeklyTask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("fixture group %q: %v", name, err)
	}
	return g
}

// CreateTitle inserts a registry title.
func (f *Fixtures) CreateTitle(ctx context.Context, name string) models.Title {
	f.t.Helper()

	title := models.Title{
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: "steven",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("titles").InsertOne(ctx, title); err != nil {
		f.t.Fatalf("fixture title %q: %v", name, err)
	}
	return title
}

// CreateShift inserts a shift assigned to the given username.
func (f *Fixtures) CreateShift(ctx context.Context, assignedTo string, date time.Time) models.Shift {
	f.t.Helper()

	s := models.Shift{
		ID:               uuid.NewString(),
		Date:             date,
		StartTime:        "08:00",
		EndTime:          "12:00",
		AssignedUsername: assignedTo,
		CreatedAt:        time.Now().UTC(),
	}
	if _, err := f.db.Collection("shifts").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("fixture shift for %q: %v", assignedTo, err)
	}
	return s
}
