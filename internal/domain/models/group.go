// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a title- or roster-scoped board: a shared weekly task list plus
// a chat thread.
//
// NOTE:
//   - Members is the explicit roster (usernames). When MemberTitle is set,
//     every member holding that title is also part of the group; the
//     effective membership is the union (see grouppolicy.ResolveMembers).
//   - MsgSeq is the per-group message counter; the message store claims
//     sequence numbers with $inc so chat ordering survives timestamp
//     collisions. LastMsgAt only moves forward ($max) and clamps the
//     timestamp each new message carries.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Supervisor  string             `bson:"supervisor" json:"supervisor"` // username, expected manager
	Members     []string           `bson:"members" json:"members"`
	MemberTitle string             `bson:"member_title,omitempty" json:"member_title,omitempty"`

	WeeklyTasks []WeeklyTask `bson:"weekly_tasks" json:"weekly_tasks"`
	MsgSeq      int64        `bson:"msg_seq" json:"-"`
	LastMsgAt   time.Time    `bson:"last_msg_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// WeeklyTask is a lightweight shared task on a group board. It has no
// assignee or due date; any member may complete it, and completing it
// schedules next week's copy.
//
// ID is a uuid string. The board is still rendered as an ordered list and
// legacy forms post the list index, but every mutation resolves the index
// to this id first so concurrent insert/remove cannot retarget a toggle.
type WeeklyTask struct {
	ID       string `bson:"id" json:"id"`
	Text     string `bson:"text" json:"text"`
	Priority string `bson:"priority" json:"priority"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
	Done     bool   `bson:"done" json:"done"`

	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CompletedBy string     `bson:"completed_by,omitempty" json:"completed_by,omitempty"`
	Photo       string     `bson:"photo,omitempty" json:"photo,omitempty"`

	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasMember reports whether username is on the explicit roster.
// Title-derived membership is resolved by grouppolicy, which also needs
// the user records.
func (g *Group) HasMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}

// WeeklyTaskByIndex resolves a positional reference from a legacy form
// into the task's stable id.
func (g *Group) WeeklyTaskByIndex(idx int) (WeeklyTask, bool) {
	if idx < 0 || idx >= len(g.WeeklyTasks) {
		return WeeklyTask{}, false
	}
	return g.WeeklyTasks[idx], true
}
