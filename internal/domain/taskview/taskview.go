// Package taskview derives role-scoped task views: sorting, filtering and
// overdue computation over a snapshot of tasks.
//
// Everything here is a pure function of its inputs. "Today" is always an
// explicit argument so views are deterministic and testable; nothing in
// this package reads the wall clock or mutates a task.
package taskview

import (
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/crewdeck/internal/domain/models"
)

// Sort keys accepted by Build. Unknown keys fall back to SortDue.
const (
	SortDue         = "due"          // ascending, tasks with no due date last
	SortDueRev      = "due_rev"      // descending, tasks with no due date last
	SortPriority    = "priority"     // High → Medium → Low, stable on ties
	SortPriorityRev = "priority_rev" // Low → Medium → High, stable on ties
	SortStatus      = "status"       // completed only, relative order kept
	SortCreated     = "created"      // newest first
)

// FilterAll is the assignee filter sentinel meaning "no filtering".
const FilterAll = "All"

// Due buckets for Query.DueBucket.
const (
	BucketOverdue  = "overdue"
	BucketToday    = "today"
	BucketUpcoming = "upcoming"
	BucketWeek     = "week" // due within the next 7 days
	BucketNone     = "none" // no due date
)

// Entry pairs a task with its view-time derived flags.
type Entry struct {
	Task     models.Task
	Overdue  bool
	DueToday bool
}

// Query selects and orders tasks for one view.
type Query struct {
	Sort     string
	Assignee string // exact username, or FilterAll

	// Optional narrowing (manager task board).
	Priorities []string // subset of Low/Medium/High; empty means all
	Tags       []string // case-insensitive any-match; empty means all
	DueBucket  string
	DueFrom    *time.Time
	DueTo      *time.Time
}

// Build filters, sorts and flags tasks for display. The input slice is
// never modified; re-invoking with identical inputs yields an identical
// sequence.
func Build(tasks []models.Task, q Query, today time.Time) []Entry {
	day := dateOnly(today)

	entries := make([]Entry, 0, len(tasks))
	for _, t := range tasks {
		if !matches(t, q, day) {
			continue
		}
		entries = append(entries, Entry{
			Task:     t,
			Overdue:  IsOverdue(t, today),
			DueToday: t.Due != nil && !t.Done && dateOnly(*t.Due).Equal(day),
		})
	}

	switch q.Sort {
	case SortStatus:
		done := entries[:0:0]
		for _, e := range entries {
			if e.Task.Done {
				done = append(done, e)
			}
		}
		entries = done
	case SortPriority:
		sort.SliceStable(entries, func(i, j int) bool {
			return models.PriorityRank(entries[i].Task.Priority) < models.PriorityRank(entries[j].Task.Priority)
		})
	case SortPriorityRev:
		sort.SliceStable(entries, func(i, j int) bool {
			return models.PriorityRank(entries[i].Task.Priority) > models.PriorityRank(entries[j].Task.Priority)
		})
	case SortCreated:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Task.CreatedAt.After(entries[j].Task.CreatedAt)
		})
	case SortDueRev:
		sort.SliceStable(entries, func(i, j int) bool {
			return dueKey(entries[i].Task).After(dueKey(entries[j].Task))
		})
		// keep no-due-date tasks at the end in both directions
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Task.Due != nil && entries[j].Task.Due == nil
		})
	default: // SortDue
		sort.SliceStable(entries, func(i, j int) bool {
			return dueKey(entries[i].Task).Before(dueKey(entries[j].Task))
		})
	}

	return entries
}

// VisibleTo narrows tasks to what the given user may see: managers see
// everything, members only tasks assigned to them.
func VisibleTo(tasks []models.Task, u *models.User) []models.Task {
	if u.IsManager() {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedUsername == u.Username {
			out = append(out, t)
		}
	}
	return out
}

// IsOverdue reports whether the task's due date is strictly before today
// and the task is not done.
func IsOverdue(t models.Task, today time.Time) bool {
	return t.Due != nil && !t.Done && dateOnly(*t.Due).Before(dateOnly(today))
}

func matches(t models.Task, q Query, day time.Time) bool {
	if q.Assignee != "" && q.Assignee != FilterAll && t.AssignedUsername != q.Assignee {
		return false
	}
	if len(q.Priorities) > 0 && !containsString(q.Priorities, t.Priority) {
		return false
	}
	if len(q.Tags) > 0 && !anyTagMatch(t.Tags, q.Tags) {
		return false
	}

	var due *time.Time
	if t.Due != nil {
		d := dateOnly(*t.Due)
		due = &d
	}

	switch q.DueBucket {
	case BucketOverdue:
		if due == nil || !due.Before(day) || t.Done {
			return false
		}
	case BucketToday:
		if due == nil || !due.Equal(day) {
			return false
		}
	case BucketUpcoming:
		if due == nil || !due.After(day) {
			return false
		}
	case BucketWeek:
		if due == nil || due.Before(day) || due.After(day.AddDate(0, 0, 7)) {
			return false
		}
	case BucketNone:
		if due != nil {
			return false
		}
	}

	if q.DueFrom != nil && (due == nil || due.Before(dateOnly(*q.DueFrom))) {
		return false
	}
	if q.DueTo != nil && (due == nil || due.After(dateOnly(*q.DueTo))) {
		return false
	}
	return true
}

// farFuture pushes tasks without a due date to the end of ascending sorts.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func dueKey(t models.Task) time.Time {
	if t.Due == nil {
		return farFuture
	}
	return dateOnly(*t.Due)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func containsString(hay []string, needle string) bool {
	for _, s := range hay {
		if s == needle {
			return true
		}
	}
	return false
}

func anyTagMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
