// internal/domain/models/reminder.go
package models

import "time"

// Reminder is a private per-user note with an optional due time. Reminders
// never appear to anyone but their owner.
type Reminder struct {
	ID       string     `bson:"id" json:"id"` // uuid
	Username string     `bson:"username" json:"username"`
	Text     string     `bson:"text" json:"text"`
	DueAt    *time.Time `bson:"due_at,omitempty" json:"due_at,omitempty"`
	Done     bool       `bson:"done" json:"done"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
