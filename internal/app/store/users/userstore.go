package userstore

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
	"golang.org/x/crypto/bcrypt"
)

// Store owns the users collection. All username arguments are folded with
// normalize.Username before use.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// ErrDuplicateUsername is returned when creating a user whose username is
// already taken.
var ErrDuplicateUsername = errors.New("a user with this username already exists")

// GetByUsername loads a user. Returns errs.ErrNotFound for unknown names.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"username": normalize.Username(username)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFoundf("user %q", username)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, username, displayName, password, role string) (models.User, error) {
	username = normalize.Username(username)
	if username == "" {
		return models.User{}, errs.Validationf("username", "is required")
	}
	if password == "" {
		return models.User{}, errs.Validationf("password", "is required")
	}
	if !models.IsValidRole(role) {
		return models.User{}, errs.Validationf("role", `must be "manager" or "member"`)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	displayName = normalize.DisplayName(displayName)
	if displayName == "" {
		displayName = username
	}

	now := time.Now().UTC()
	u := models.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		Titles:       []string{},
		JoinDate:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks a username/password pair. Unknown usernames return
// errs.ErrNotFound; a wrong password returns errs.ErrForbidden so callers
// can log the two apart while the login page shows one generic message.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, errs.Forbiddenf("bad credentials for %q", username)
	}
	return u, nil
}

// List returns every user ordered by username.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

// ListMembers returns member-role users ordered by username.
func (s *Store) ListMembers(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{"role": models.RoleMember})
}

// ListWithTitle returns members currently holding the given title.
func (s *Store) ListWithTitle(ctx context.Context, title string) ([]models.User, error) {
	return s.find(ctx, bson.M{
		"role":   models.RoleMember,
		"titles": normalize.Title(title),
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AssignTitle adds a title to a member's set. Assigning an already-held
// title is a no-op, not an error ($addToSet).
func (s *Store) AssignTitle(ctx context.Context, username, title string) error {
	title = normalize.Title(title)
	if title == "" {
		return errs.Validationf("title", "is required")
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"username": normalize.Username(username)},
		bson.M{
			"$addToSet": bson.M{"titles": title},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("user %q", username)
	}
	return nil
}

// UnassignTitle removes a title from a member's set. Removing an absent
// title is a no-op.
func (s *Store) UnassignTitle(ctx context.Context, username, title string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"username": normalize.Username(username)},
		bson.M{
			"$pull": bson.M{"titles": normalize.Title(title)},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("user %q", username)
	}
	return nil
}

// ClearTitleEverywhere removes the title from every user that holds it.
// Used by the registry's delete cascade.
func (s *Store) ClearTitleEverywhere(ctx context.Context, title string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"titles": normalize.Title(title)},
		bson.M{
			"$pull": bson.M{"titles": normalize.Title(title)},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// IncrementCompleted bumps the user's lifetime completed-task counter.
// delta may be negative when a completion is undone.
func (s *Store) IncrementCompleted(ctx context.Context, username string, delta int) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"username": normalize.Username(username)},
		bson.M{"$inc": bson.M{"total_tasks_completed": delta}})
	return err
}
