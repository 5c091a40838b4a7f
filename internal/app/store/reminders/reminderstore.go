package reminderstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the reminders collection. Every operation is scoped by owner;
// there is no path that reads or writes another user's reminders.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reminders")}
}

// Add creates a reminder for the given user.
func (s *Store) Add(ctx context.Context, username, text string, dueAt *time.Time) (models.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Reminder{}, errs.Validationf("text", "is required")
	}
	r := models.Reminder{
		ID:        uuid.NewString(),
		Username:  normalize.Username(username),
		Text:      text,
		DueAt:     dueAt,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

// List returns the user's reminders, open ones first, then by due time.
func (s *Store) List(ctx context.Context, username string) ([]models.Reminder, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"username": normalize.Username(username)},
		options.Find().SetSort(bson.D{
			{Key: "done", Value: 1},
			{Key: "due_at", Value: 1},
			{Key: "created_at", Value: 1},
		}))
	if err != nil {
		return nil, err
	}
	var rs []models.Reminder
	if err := cur.All(ctx, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// Toggle flips one reminder's done state.
func (s *Store) Toggle(ctx context.Context, username, id string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"id": id, "username": normalize.Username(username)},
		bson.A{bson.M{"$set": bson.M{"done": bson.M{"$not": bson.A{"$done"}}}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("reminder %s", id)
	}
	return nil
}

// Remove deletes one reminder.
func (s *Store) Remove(ctx context.Context, username, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"id": id, "username": normalize.Username(username)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("reminder %s", id)
	}
	return nil
}
