package shiftstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/crewdeck/internal/app/system/normalize"
	"github.com/dalemusser/crewdeck/internal/domain/errs"
	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the shifts and shift_attendance collections.
type Store struct {
	shifts     *mongo.Collection
	attendance *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		shifts:     db.Collection("shifts"),
		attendance: db.Collection("shift_attendance"),
	}
}

// Create schedules a shift for one member.
func (s *Store) Create(ctx context.Context, date time.Time, startTime, endTime, assignedTo, notes string) (models.Shift, error) {
	assignedTo = normalize.Username(assignedTo)
	if assignedTo == "" {
		return models.Shift{}, errs.Validationf("assigned_username", "is required")
	}
	if startTime == "" || endTime == "" {
		return models.Shift{}, errs.Validationf("time", "start and end are required")
	}

	sh := models.Shift{
		ID:               uuid.NewString(),
		Date:             date.UTC().Truncate(24 * time.Hour),
		StartTime:        startTime,
		EndTime:          endTime,
		AssignedUsername: assignedTo,
		Notes:            notes,
		CreatedAt:        time.Now().UTC(),
	}
	if _, err := s.shifts.InsertOne(ctx, sh); err != nil {
		return models.Shift{}, err
	}
	return sh, nil
}

// GetByID loads one shift.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Shift, error) {
	var sh models.Shift
	err := s.shifts.FindOne(ctx, bson.M{"id": id}).Decode(&sh)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFoundf("shift %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// List returns every shift, soonest date first.
func (s *Store) List(ctx context.Context) ([]models.Shift, error) {
	return s.find(ctx, bson.M{})
}

// ListForUser returns one member's shifts, soonest date first.
func (s *Store) ListForUser(ctx context.Context, username string) ([]models.Shift, error) {
	return s.find(ctx, bson.M{"assigned_username": normalize.Username(username)})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Shift, error) {
	cur, err := s.shifts.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var shifts []models.Shift
	if err := cur.All(ctx, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// Remove deletes a shift and any attendance recorded against it.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.shifts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("shift %s", id)
	}
	_, err = s.attendance.DeleteMany(ctx, bson.M{"shift_id": id})
	return err
}

// MarkAttendance records a member's attendance for their own shift.
// AttendanceClear removes the record; other statuses upsert it.
func (s *Store) MarkAttendance(ctx context.Context, shiftID, username, status string) error {
	if !models.IsValidAttendance(status) {
		return errs.Validationf("status", "must be attended, missed or clear")
	}
	username = normalize.Username(username)

	sh, err := s.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if sh.AssignedUsername != username {
		return errs.Forbiddenf("shift %s is not assigned to %q", shiftID, username)
	}

	if status == models.AttendanceClear {
		_, err := s.attendance.DeleteOne(ctx, bson.M{"shift_id": shiftID, "username": username})
		return err
	}
	_, err = s.attendance.UpdateOne(ctx,
		bson.M{"shift_id": shiftID, "username": username},
		bson.M{"$set": bson.M{
			"status":    status,
			"marked_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	return err
}

// AttendanceByShift returns attendance records keyed by shift id for the
// given shifts.
func (s *Store) AttendanceByShift(ctx context.Context, shiftIDs []string) (map[string]models.ShiftAttendance, error) {
	if len(shiftIDs) == 0 {
		return map[string]models.ShiftAttendance{}, nil
	}
	cur, err := s.attendance.Find(ctx, bson.M{"shift_id": bson.M{"$in": shiftIDs}})
	if err != nil {
		return nil, err
	}
	var recs []models.ShiftAttendance
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	out := make(map[string]models.ShiftAttendance, len(recs))
	for _, r := range recs {
		out[r.ShiftID] = r
	}
	return out, nil
}
