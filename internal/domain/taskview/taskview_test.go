package taskview_test

import (
	"testing"
	"time"

	"github.com/dalemusser/crewdeck/internal/domain/models"
	"github.com/dalemusser/crewdeck/internal/domain/taskview"
)

var today = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func datep(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func task(text, priority string, due *time.Time) models.Task {
	return models.Task{Text: text, Priority: priority, Due: due, AssignedUsername: "alice"}
}

func texts(entries []taskview.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Task.Text
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild_SortDue_NoDueLast(t *testing.T) {
	tasks := []models.Task{
		task("no due", models.PriorityMedium, nil),
		task("later", models.PriorityMedium, datep(2026, 9, 10)),
		task("sooner", models.PriorityMedium, datep(2026, 9, 1)),
	}

	got := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortDue}, today))
	want := []string{"sooner", "later", "no due"}
	if !equal(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestBuild_SortDueRev_NoDueStillLast(t *testing.T) {
	tasks := []models.Task{
		task("no due", models.PriorityMedium, nil),
		task("sooner", models.PriorityMedium, datep(2026, 9, 1)),
		task("later", models.PriorityMedium, datep(2026, 9, 10)),
	}

	got := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortDueRev}, today))
	want := []string{"later", "sooner", "no due"}
	if !equal(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestBuild_SortPriority_BothDirections(t *testing.T) {
	tasks := []models.Task{
		task("low", models.PriorityLow, nil),
		task("high", models.PriorityHigh, nil),
		task("medium", models.PriorityMedium, nil),
	}

	got := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortPriority}, today))
	want := []string{"high", "medium", "low"}
	if !equal(got, want) {
		t.Errorf("priority order: got %v, want %v", got, want)
	}

	got = texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortPriorityRev}, today))
	want = []string{"low", "medium", "high"}
	if !equal(got, want) {
		t.Errorf("reversed priority order: got %v, want %v", got, want)
	}
}

func TestBuild_SortPriority_StableOnTies(t *testing.T) {
	tasks := []models.Task{
		task("first high", models.PriorityHigh, nil),
		task("low", models.PriorityLow, nil),
		task("second high", models.PriorityHigh, nil),
	}

	got := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortPriority}, today))
	want := []string{"first high", "second high", "low"}
	if !equal(got, want) {
		t.Errorf("tied tasks must keep input order: got %v, want %v", got, want)
	}
}

func TestBuild_SortStatus_CompletedOnly(t *testing.T) {
	done := task("done one", models.PriorityMedium, nil)
	done.Done = true
	done2 := task("done two", models.PriorityMedium, nil)
	done2.Done = true
	tasks := []models.Task{done, task("open", models.PriorityMedium, nil), done2}

	got := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortStatus}, today))
	want := []string{"done one", "done two"}
	if !equal(got, want) {
		t.Errorf("status view: got %v, want %v", got, want)
	}
}

func TestBuild_OverdueAndTodayFlags(t *testing.T) {
	doneLate := task("done late", models.PriorityMedium, datep(2026, 8, 1))
	doneLate.Done = true
	tasks := []models.Task{
		task("yesterday", models.PriorityMedium, datep(2026, 8, 30)),
		task("today", models.PriorityMedium, datep(2026, 8, 31)),
		task("tomorrow", models.PriorityMedium, datep(2026, 9, 1)),
		doneLate,
	}

	entries := taskview.Build(tasks, taskview.Query{Sort: taskview.SortDue}, today)
	flags := map[string][2]bool{}
	for _, e := range entries {
		flags[e.Task.Text] = [2]bool{e.Overdue, e.DueToday}
	}

	if flags["yesterday"] != [2]bool{true, false} {
		t.Errorf("yesterday: got %v", flags["yesterday"])
	}
	if flags["today"] != [2]bool{false, true} {
		t.Errorf("today: got %v", flags["today"])
	}
	if flags["tomorrow"] != [2]bool{false, false} {
		t.Errorf("tomorrow: got %v", flags["tomorrow"])
	}
	// A completed task is never overdue, no matter the date.
	if flags["done late"] != [2]bool{false, false} {
		t.Errorf("done late: got %v", flags["done late"])
	}
}

func TestBuild_AssigneeFilter(t *testing.T) {
	mine := task("mine", models.PriorityMedium, nil)
	other := task("theirs", models.PriorityMedium, nil)
	other.AssignedUsername = "bob"
	tasks := []models.Task{mine, other}

	got := texts(taskview.Build(tasks, taskview.Query{Assignee: "alice"}, today))
	if !equal(got, []string{"mine"}) {
		t.Errorf("assignee filter: got %v", got)
	}

	got = texts(taskview.Build(tasks, taskview.Query{Assignee: taskview.FilterAll}, today))
	if len(got) != 2 {
		t.Errorf("FilterAll should keep everything, got %v", got)
	}
}

func TestBuild_DueBuckets(t *testing.T) {
	tasks := []models.Task{
		task("overdue", models.PriorityMedium, datep(2026, 8, 25)),
		task("today", models.PriorityMedium, datep(2026, 8, 31)),
		task("this week", models.PriorityMedium, datep(2026, 9, 3)),
		task("next month", models.PriorityMedium, datep(2026, 10, 1)),
		task("no due", models.PriorityMedium, nil),
	}

	cases := []struct {
		bucket string
		want   []string
	}{
		{taskview.BucketOverdue, []string{"overdue"}},
		{taskview.BucketToday, []string{"today"}},
		{taskview.BucketUpcoming, []string{"this week", "next month"}},
		{taskview.BucketWeek, []string{"today", "this week"}},
		{taskview.BucketNone, []string{"no due"}},
	}
	for _, tc := range cases {
		got := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortDue, DueBucket: tc.bucket}, today))
		if !equal(got, tc.want) {
			t.Errorf("bucket %q: got %v, want %v", tc.bucket, got, tc.want)
		}
	}
}

func TestBuild_TagFilterCaseInsensitive(t *testing.T) {
	tagged := task("tagged", models.PriorityMedium, nil)
	tagged.Tags = []string{"Cleanup"}
	tasks := []models.Task{tagged, task("plain", models.PriorityMedium, nil)}

	got := texts(taskview.Build(tasks, taskview.Query{Tags: []string{"cleanup"}}, today))
	if !equal(got, []string{"tagged"}) {
		t.Errorf("tag filter: got %v", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	tasks := []models.Task{
		task("a", models.PriorityHigh, datep(2026, 9, 1)),
		task("b", models.PriorityHigh, datep(2026, 9, 1)),
		task("c", models.PriorityLow, nil),
	}

	first := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortPriority}, today))
	for i := 0; i < 10; i++ {
		again := texts(taskview.Build(tasks, taskview.Query{Sort: taskview.SortPriority}, today))
		if !equal(first, again) {
			t.Fatalf("run %d differed: %v vs %v", i, first, again)
		}
	}
}

func TestVisibleTo(t *testing.T) {
	mine := task("mine", models.PriorityMedium, nil)
	other := task("theirs", models.PriorityMedium, nil)
	other.AssignedUsername = "bob"
	tasks := []models.Task{mine, other}

	alice := &models.User{Username: "alice", Role: models.RoleMember}
	if got := taskview.VisibleTo(tasks, alice); len(got) != 1 || got[0].Text != "mine" {
		t.Errorf("member visibility: got %d tasks", len(got))
	}

	steven := &models.User{Username: "steven", Role: models.RoleManager}
	if got := taskview.VisibleTo(tasks, steven); len(got) != 2 {
		t.Errorf("manager visibility: got %d tasks", len(got))
	}
}

func TestIsOverdue_DateBoundary(t *testing.T) {
	// Due late yesterday evening is overdue at any time today; due any
	// time today is not.
	lateYesterday := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	earlyToday := time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC)

	if !taskview.IsOverdue(models.Task{Due: &lateYesterday}, today) {
		t.Error("task due yesterday should be overdue")
	}
	if taskview.IsOverdue(models.Task{Due: &earlyToday}, today) {
		t.Error("task due today should not be overdue")
	}
	if taskview.IsOverdue(models.Task{Due: &lateYesterday, Done: true}, today) {
		t.Error("completed task is never overdue")
	}
}
