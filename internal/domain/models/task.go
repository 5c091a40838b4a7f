// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priorities, totally ordered High > Medium > Low for sort purposes.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Recurrence patterns a task may carry. A recurring task rerolls a fresh
// copy at the next due date when it is completed.
const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
)

// Task is an individually assigned to-do item.
//
// Invariant: CompletedAt is non-nil exactly when Done is true.
// Overdue is never stored; it is derived at view time (see taskview).
type Task struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text     string             `bson:"text" json:"text"`
	Done     bool               `bson:"done" json:"done"`
	Priority string             `bson:"priority" json:"priority"`
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Tags     []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	// Due is a date only (midnight UTC); nil means no due date.
	Due       *time.Time `bson:"due,omitempty" json:"due,omitempty"`
	Recurring string     `bson:"recurring,omitempty" json:"recurring,omitempty"`

	AssignedUsername string `bson:"assigned_username,omitempty" json:"assigned_username,omitempty"`
	AssignedDisplay  string `bson:"assigned_display,omitempty" json:"assigned_display,omitempty"`
	Owner            string `bson:"owner" json:"owner"` // creating manager's username

	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy string     `bson:"completed_by,omitempty" json:"completed_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PriorityRank maps a priority to its sort rank (High first). Unknown
// priorities sort after Low.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// IsValidPriority checks a priority string against the known set.
func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// IsValidRecurrence accepts the known patterns or empty (non-recurring).
func IsValidRecurrence(r string) bool {
	return r == "" || r == RecurDaily || r == RecurWeekly || r == RecurMonthly
}

// NextRecurringDue returns the due date of the follow-up copy created when
// a recurring task is completed. Monthly recurrence clamps to the last day
// of shorter months.
func NextRecurringDue(current time.Time, pattern string) (time.Time, bool) {
	switch pattern {
	case RecurDaily:
		return current.AddDate(0, 0, 1), true
	case RecurWeekly:
		return current.AddDate(0, 0, 7), true
	case RecurMonthly:
		y, m, d := current.Date()
		first := time.Date(y, m+1, 1, 0, 0, 0, 0, current.Location())
		last := first.AddDate(0, 1, -1).Day()
		if d > last {
			d = last
		}
		return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, current.Location()), true
	default:
		return time.Time{}, false
	}
}
