// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in a group's append-only chat log.
//
// Seq is the per-group sequence number claimed at post time; history is
// ordered by Seq, so messages whose timestamps collide keep insertion
// order. Messages are immutable once posted (delete exists, edit does not).
type Message struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	Seq     int64              `bson:"seq" json:"seq"`

	Sender    string    `bson:"sender" json:"sender"`
	Text      string    `bson:"text" json:"text"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Pinned    bool      `bson:"pinned" json:"pinned"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
