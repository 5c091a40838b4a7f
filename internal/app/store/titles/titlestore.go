package titlestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the titles registry. Titles are unique case-insensitively
// (name_ci unique index).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("titles")}
}

var ErrDuplicateTitle = errors.New("a title with this name already exists")

// Create adds a title to the registry.
func (s *Store) Create(ctx context.Context, name, createdBy string) (models.Title, error) {
	name = normalize.Title(name)
	if name == "" {
		return models.Title{}, errs.Validationf("title", "is required")
	}

	t := models.Title{
		Name:      name,
		NameCI:    normalize.TitleKey(name),
		CreatedBy: normalize.Username(createdBy),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Title{}, ErrDuplicateTitle
		}
		return models.Title{}, err
	}
	return t, nil
}

// Exists reports whether a title with this name is registered.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"name_ci": normalize.TitleKey(name)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all registry titles sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Title, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var titles []models.Title
	if err := cur.All(ctx, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// Remove deletes a title from the registry. Callers that want the full
// cascade (clearing it from users) go through the titles feature, which
// also calls userstore.ClearTitleEverywhere.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"name_ci": normalize.TitleKey(name)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("title %q", name)
	}
	return nil
}
