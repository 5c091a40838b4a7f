// internal/domain/models/shift.go
package models

import "time"

// Shift attendance states a member can record against their own shift.
const (
	AttendanceAttended = "attended"
	AttendanceMissed   = "missed"
	AttendanceClear    = "clear" // removes any recorded state
)

// Shift is a scheduled work block assigned to one member.
type Shift struct {
	ID               string    `bson:"id" json:"id"` // uuid
	Date             time.Time `bson:"date" json:"date"`
	StartTime        string    `bson:"start_time" json:"start_time"` // "08:00"
	EndTime          string    `bson:"end_time" json:"end_time"`
	AssignedUsername string    `bson:"assigned_username" json:"assigned_username"`
	Notes            string    `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ShiftAttendance records one member's attendance state for one shift.
type ShiftAttendance struct {
	Username string    `bson:"username" json:"username"`
	ShiftID  string    `bson:"shift_id" json:"shift_id"`
	Status   string    `bson:"status" json:"status"` // attended | missed
	MarkedAt time.Time `bson:"marked_at" json:"marked_at"`
}

// IsValidAttendance checks a requested attendance transition.
func IsValidAttendance(status string) bool {
	return status == AttendanceAttended || status == AttendanceMissed || status == AttendanceClear
}
