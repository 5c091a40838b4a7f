package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the groups collection. A group document embeds its roster and
// weekly task list, so board mutations are single-document writes.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

var ErrDuplicateGroupName = errors.New("a group with this name already exists")

// Create inserts a new group. The supervisor starts on the roster.
func (s *Store) Create(ctx context.Context, name, supervisor, memberTitle string) (models.Group, error) {
	name = normalize.DisplayName(name)
	if name == "" {
		return models.Group{}, errs.Validationf("name", "is required")
	}
	supervisor = normalize.Username(supervisor)
	if supervisor == "" {
		return models.Group{}, errs.Validationf("supervisor", "is required")
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      normalize.TitleKey(name),
		Supervisor:  supervisor,
		Members:     []string{supervisor},
		MemberTitle: normalize.Title(memberTitle),
		WeeklyTasks: []models.WeeklyTask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByID loads one group.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFoundf("group %s", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all groups sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	return s.find(ctx, bson.M{})
}

// ListForUser returns the groups the user belongs to: explicit roster
// membership or a matching member title.
func (s *Store) ListForUser(ctx context.Context, u *models.User) ([]models.Group, error) {
	if u.IsManager() {
		return s.List(ctx)
	}
	filter := bson.M{"members": u.Username}
	if len(u.Titles) > 0 {
		filter = bson.M{"$or": bson.A{
			bson.M{"members": u.Username},
			bson.M{"member_title": bson.M{"$in": u.Titles}},
		}}
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember puts a username on the roster; adding an existing member is a
// no-op.
func (s *Store) AddMember(ctx context.Context, id primitive.ObjectID, username string) error {
	username = normalize.Username(username)
	if username == "" {
		return errs.Validationf("member", "is required")
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"members": username},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFoundf("group %s", id.Hex())
	}
	return nil
}

// RemoveMember drops a username from the roster. The supervisor cannot be
// removed; the filter refuses the match so the check and the write are one
// atomic step.
func (s *Store) RemoveMember(ctx context.Context, id primitive.ObjectID, username string) error {
	username = normalize.Username(username)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "supervisor": bson.M{"$ne": username}},
		bson.M{
			"$pull": bson.M{"members": username},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the group is unknown or the username is the supervisor.
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return errs.Forbiddenf("supervisor %q cannot be removed from the roster", username)
	}
	return nil
}

// AddWeeklyTask appends a board task with a fresh stable id.
func (s *Store) AddWeeklyTask(ctx context.Context, id primitive.ObjectID, text, priority, notes, createdBy string) (models.WeeklyTask, error) {
	if text == "" {
		return models.WeeklyTask{}, errs.Validationf("text", "is required")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return models.WeeklyTask{}, errs.Validationf("priority", "must be Low, Medium or High")
	}

	wt := models.WeeklyTask{
		ID:        uuid.NewString(),
		Text:      text,
		Priority:  priority,
		Notes:     notes,
		CreatedBy: normalize.Username(createdBy),
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"weekly_tasks": wt},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return models.WeeklyTask{}, err
	}
	if res.MatchedCount == 0 {
		return models.WeeklyTask{}, errs.NotFoundf("group %s", id.Hex())
	}
	return wt, nil
}

// ToggleWeeklyTask flips one board task, addressed by its stable id.
//
// The write matches the task's current done state, so two concurrent
// toggles cannot both apply the same transition; the loser re-reads and
// applies the opposite one. Completing a task stamps completed_at/by and
// pushes next week's copy in the same document write.
func (s *Store) ToggleWeeklyTask(ctx context.Context, id primitive.ObjectID, taskID, by string) (*models.WeeklyTask, error) {
	by = normalize.Username(by)

	for attempt := 0; attempt < 3; attempt++ {
		g, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		var cur *models.WeeklyTask
		for i := range g.WeeklyTasks {
			if g.WeeklyTasks[i].ID == taskID {
				cur = &g.WeeklyTasks[i]
				break
			}
		}
		if cur == nil {
			return nil, errs.NotFoundf("weekly task %s in group %s", taskID, id.Hex())
		}

		now := time.Now().UTC().Truncate(time.Minute)
		filter := bson.M{
			"_id":          id,
			"weekly_tasks": bson.M{"$elemMatch": bson.M{"id": taskID, "done": cur.Done}},
		}

		var update bson.M
		if cur.Done {
			update = bson.M{
				"$set": bson.M{
					"weekly_tasks.$.done": false,
					"updated_at":          now,
				},
				"$unset": bson.M{
					"weekly_tasks.$.completed_at": "",
					"weekly_tasks.$.completed_by": "",
					"weekly_tasks.$.photo":        "",
				},
			}
		} else {
			next := models.WeeklyTask{
				ID:        uuid.NewString(),
				Text:      cur.Text,
				Priority:  cur.Priority,
				Notes:     cur.Notes,
				CreatedBy: cur.CreatedBy,
				CreatedAt: now.AddDate(0, 0, 7),
			}
			update = bson.M{
				"$set": bson.M{
					"weekly_tasks.$.done":         true,
					"weekly_tasks.$.completed_at": now,
					"weekly_tasks.$.completed_by": by,
					"updated_at":                  now,
				},
				"$push": bson.M{"weekly_tasks": next},
			}
		}

		res, err := s.c.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 1 {
			toggled := *cur
			toggled.Done = !cur.Done
			if toggled.Done {
				toggled.CompletedAt = &now
				toggled.CompletedBy = by
			} else {
				toggled.CompletedAt = nil
				toggled.CompletedBy = ""
			}
			return &toggled, nil
		}
		// Lost a race with another toggle; re-read and try the new state.
	}
	return nil, errs.NotFoundf("weekly task %s in group %s", taskID, id.Hex())
}

// ClaimMessageSeq atomically reserves the next chat sequence number for
// the group and returns the timestamp the message must carry. The group
// document records the newest timestamp with $max in the same update, so
// timestamps never run backwards within a group even when posters' clocks
// disagree.
func (s *Store) ClaimMessageSeq(ctx context.Context, id primitive.ObjectID) (int64, time.Time, error) {
	now := time.Now().UTC()
	var g models.Group
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"msg_seq": 1},
			"$max": bson.M{"last_msg_at": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, time.Time{}, errs.NotFoundf("group %s", id.Hex())
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	return g.MsgSeq, g.LastMsgAt, nil
}
