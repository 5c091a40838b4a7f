package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the messages collection. Messages are append-only; ordering
// within a group is the seq number claimed from the group document, never
// the wall clock.
type Store struct {
	c        *mongo.Collection
	sanitize *bluemonday.Policy
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("messages"),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Post appends a message under a seq and timestamp already claimed from
// the group document, so timestamps within a group never run backwards.
// Text is stripped of any markup before it is stored.
func (s *Store) Post(ctx context.Context, groupID primitive.ObjectID, seq int64, ts time.Time, sender, text, image string) (models.Message, error) {
	text = strings.TrimSpace(s.sanitize.Sanitize(text))
	if text == "" && image == "" {
		return models.Message{}, errs.Validationf("text", "is required")
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	m := models.Message{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		Seq:       seq,
		Sender:    normalize.Username(sender),
		Text:      text,
		Image:     image,
		Timestamp: ts.UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// History returns a group's messages in posting order.
func (s *Store) History(ctx context.Context, groupID primitive.ObjectID) ([]models.Message, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Pinned returns only the pinned messages of a group, oldest first.
func (s *Store) Pinned(ctx context.Context, groupID primitive.ObjectID) ([]models.Message, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "pinned": true},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SetPinned pins or unpins one message.
func (s *Store) SetPinned(ctx context.Context, groupID, msgID primitive.ObjectID, pinned bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": msgID, "group_id": groupID},
		bson.M{"$set": bson.M{"pinned": pinned}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("message %s", msgID.Hex())
	}
	return nil
}

// Remove deletes one message from a group's log.
func (s *Store) Remove(ctx context.Context, groupID, msgID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": msgID, "group_id": groupID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("message %s", msgID.Hex())
	}
	return nil
}

// Latest returns a group's newest message, or nil when the log is empty.
func (s *Store) Latest(ctx context.Context, groupID primitive.ObjectID) (*models.Message, error) {
	var m models.Message
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID},
		options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountSince counts messages in a group with seq greater than lastSeen.
func (s *Store) CountSince(ctx context.Context, groupID primitive.ObjectID, lastSeen int64) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"seq":      bson.M{"$gt": lastSeen},
	})
}

// RemoveForGroup deletes a group's entire log; used when the group itself
// is deleted.
func (s *Store) RemoveForGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
