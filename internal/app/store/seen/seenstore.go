package seenstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store tracks, per user and group, the last chat seq the user has read.
// Unread counts come from comparing the marker against the group's log.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chat_seen")}
}

type marker struct {
	Username string             `bson:"username"`
	GroupID  primitive.ObjectID `bson:"group_id"`
	LastSeen int64              `bson:"last_seen"`
	SeenAt   time.Time          `bson:"seen_at"`
}

// MarkRead records that the user has read the group's log up to seq.
// The marker only moves forward; a stale client cannot roll it back.
func (s *Store) MarkRead(ctx context.Context, username string, groupID primitive.ObjectID, seq int64) error {
	username = normalize.Username(username)
	_, err := s.c.UpdateOne(ctx,
		bson.M{"username": username, "group_id": groupID},
		bson.M{
			"$max": bson.M{"last_seen": seq},
			"$set": bson.M{"seen_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true))
	return err
}

// LastSeen returns the user's marker for a group, zero when the user has
// never opened the log.
func (s *Store) LastSeen(ctx context.Context, username string, groupID primitive.ObjectID) (int64, error) {
	var m marker
	err := s.c.FindOne(ctx, bson.M{
		"username": normalize.Username(username),
		"group_id": groupID,
	}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.LastSeen, nil
}

// Markers returns all of a user's group markers keyed by group id.
func (s *Store) Markers(ctx context.Context, username string) (map[primitive.ObjectID]int64, error) {
	cur, err := s.c.Find(ctx, bson.M{"username": normalize.Username(username)})
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]int64)
	var ms []marker
	if err := cur.All(ctx, &ms); err != nil {
		return nil, err
	}
	for _, m := range ms {
		out[m.GroupID] = m.LastSeen
	}
	return out, nil
}

// RemoveForGroup drops every marker for a deleted group.
func (s *Store) RemoveForGroup(ctx context.Context, groupID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	return err
}
