package taskstore

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

// Store owns the tasks collection. Each task is one document, so every
// mutation is a single conditional update and concurrent writes to the
// same task serialize on the document without lost updates.
//
// Notes are free text typed by members; they pass through a bluemonday
// strict policy before storage, the same treatment chat text gets.
type Store struct {
	c        *mongo.Collection
	sanitize *bluemonday.Policy
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("tasks"),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// CreateParams carries the fields a manager supplies for a new task.
type CreateParams struct {
	Text             string
	Priority         string
	AssignedUsername string
	AssignedDisplay  string
	Owner            string
	Due              *time.Time
	Notes            string
	Tags             []string
	Recurring        string
}

// Create inserts a new task after validation.
func (s *Store) Create(ctx context.Context, p CreateParams) (models.Task, error) {
	if p.Text == "" {
		return models.Task{}, errs.Validationf("text", "is required")
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(p.Priority) {
		return models.Task{}, errs.Validationf("priority", "must be Low, Medium or High")
	}
	if !models.IsValidRecurrence(p.Recurring) {
		return models.Task{}, errs.Validationf("recurring", "must be daily, weekly or monthly")
	}

	now := time.Now().UTC()
	t := models.Task{
		ID:               primitive.NewObjectID(),
		Text:             p.Text,
		Priority:         p.Priority,
		Notes:            strings.TrimSpace(s.sanitize.Sanitize(p.Notes)),
		Tags:             p.Tags,
		Due:              p.Due,
		Recurring:        p.Recurring,
		AssignedUsername: normalize.Username(p.AssignedUsername),
		AssignedDisplay:  p.AssignedDisplay,
		Owner:            normalize.Username(p.Owner),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads one task.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFoundf("task %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Toggle flips done in a single pipeline update: completed_at/by are set
// exactly when done transitions false→true and removed on true→false, so
// the completed_at ⇔ done invariant holds even under concurrent toggles.
//
// Completing a recurring task also appends next cycle's copy. That insert
// is a separate write; the toggle itself never half-applies.
func (s *Store) Toggle(ctx context.Context, id primitive.ObjectID, by string) (*models.Task, error) {
	now := time.Now().UTC().Truncate(time.Minute)

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"done": bson.M{"$not": bson.A{"$done"}},
			"completed_at": bson.M{"$cond": bson.A{
				bson.M{"$not": bson.A{"$done"}}, now, "$$REMOVE",
			}},
			"completed_by": bson.M{"$cond": bson.A{
				bson.M{"$not": bson.A{"$done"}}, normalize.Username(by), "$$REMOVE",
			}},
			"updated_at": now,
		}},
	}

	var t models.Task
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFoundf("task %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}

	if t.Done && t.Recurring != "" && t.Due != nil {
		if next, ok := models.NextRecurringDue(*t.Due, t.Recurring); ok {
			clone := t
			clone.ID = primitive.NewObjectID()
			clone.Done = false
			clone.CompletedAt = nil
			clone.CompletedBy = ""
			clone.Due = &next
			clone.CreatedAt = now
			clone.UpdatedAt = now
			if _, err := s.c.InsertOne(ctx, clone); err != nil {
				return &t, err
			}
		}
	}

	return &t, nil
}

// UpdateParams carries manager-editable fields. Nil pointers mean "leave
// unchanged"; a non-nil pointer to a zero value clears the field.
type UpdateParams struct {
	Text      *string
	Priority  *string
	Notes     *string
	Tags      []string
	Due       *time.Time
	ClearDue  bool
	Recurring *string

	AssignedUsername *string
	AssignedDisplay  *string
}

// Update applies a manager edit.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p UpdateParams) (*models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if p.Text != nil {
		if *p.Text == "" {
			return nil, errs.Validationf("text", "is required")
		}
		set["text"] = *p.Text
	}
	if p.Priority != nil {
		if !models.IsValidPriority(*p.Priority) {
			return nil, errs.Validationf("priority", "must be Low, Medium or High")
		}
		set["priority"] = *p.Priority
	}
	if p.Notes != nil {
		set["notes"] = strings.TrimSpace(s.sanitize.Sanitize(*p.Notes))
	}
	if p.Tags != nil {
		set["tags"] = p.Tags
	}
	if p.ClearDue {
		unset["due"] = ""
	} else if p.Due != nil {
		set["due"] = *p.Due
	}
	if p.Recurring != nil {
		if !models.IsValidRecurrence(*p.Recurring) {
			return nil, errs.Validationf("recurring", "must be daily, weekly or monthly")
		}
		if *p.Recurring == "" {
			unset["recurring"] = ""
		} else {
			set["recurring"] = *p.Recurring
		}
	}
	if p.AssignedUsername != nil {
		set["assigned_username"] = normalize.Username(*p.AssignedUsername)
	}
	if p.AssignedDisplay != nil {
		set["assigned_display"] = *p.AssignedDisplay
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var t models.Task
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFoundf("task %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateNotes is the one field an assignee may edit on their own task.
func (s *Store) UpdateNotes(ctx context.Context, id primitive.ObjectID, notes string) (*models.Task, error) {
	return s.Update(ctx, id, UpdateParams{Notes: &notes})
}

// UpdateDue moves a task's due date (calendar drag).
func (s *Store) UpdateDue(ctx context.Context, id primitive.ObjectID, due time.Time) (*models.Task, error) {
	return s.Update(ctx, id, UpdateParams{Due: &due})
}

// Remove deletes a task.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("task %s", id.Hex())
	}
	return nil
}

// List returns every task, oldest first (insertion order is the stable
// baseline the view engine's ties preserve).
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	return s.find(ctx, bson.M{})
}

// ListForUser applies the visibility rule: managers see all tasks, members
// only those assigned to them.
func (s *Store) ListForUser(ctx context.Context, u *models.User) ([]models.Task, error) {
	if u.IsManager() {
		return s.List(ctx)
	}
	return s.find(ctx, bson.M{"assigned_username": u.Username})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
