package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/recurrence"
	"taskflow/internal/store"
)

// countingStore wraps a TaskStore, counts Create calls and can be told to
// start failing at the nth call.
type countingStore struct {
	store.TaskStore
	creates int
	failAt  int // 1-based call index, 0 means never fail
}

func (c *countingStore) Create(ctx context.Context, draft store.TaskDraft) (*model.Task, error) {
	c.creates++
	if c.failAt > 0 && c.creates >= c.failAt {
		return nil, errors.New("backend unavailable")
	}
	return c.TaskStore.Create(ctx, draft)
}

func newRecurringFixture(t *testing.T) (*RecurringService, *countingStore) {
	t.Helper()
	counting := &countingStore{TaskStore: store.NewMemoryStore().Tasks()}
	return NewRecurringService(counting), counting
}

func dailyPattern(count int) recurrence.Pattern {
	return recurrence.Pattern{
		Type:     recurrence.Daily,
		Interval: 1,
		End:      recurrence.End{Kind: recurrence.EndAfterCount, Count: count},
	}
}

func TestCreateRecurring(t *testing.T) {
	svc, counting := newRecurringFixture(t)
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	master, instances, err := svc.CreateRecurring(context.Background(), TaskInput{
		Title:   "Standup",
		DueDate: &anchor,
	}, dailyPattern(3))
	if err != nil {
		t.Fatalf("create recurring: %v", err)
	}

	if !master.IsRecurring {
		t.Error("master must be flagged recurring")
	}
	if master.ParentTaskID != nil {
		t.Error("master must not have a parent")
	}
	if master.RecurrenceRule == "" || master.RecurrencePattern == nil {
		t.Error("master must carry the rule summary and the pattern")
	}

	if len(instances) != 3 {
		t.Fatalf("got %d instances, want 3", len(instances))
	}
	seenDates := make(map[string]bool)
	prevID := master.ID
	for _, instance := range instances {
		if instance.ParentTaskID == nil || *instance.ParentTaskID != master.ID {
			t.Errorf("instance %d not linked to master", instance.ID)
		}
		if instance.IsRecurring || !instance.IsRecurrenceInstance {
			t.Errorf("instance %d has wrong flags: %+v", instance.ID, instance)
		}
		if instance.DueDate == nil || instance.RecurrenceDate == nil ||
			!instance.DueDate.Equal(*instance.RecurrenceDate) {
			t.Errorf("instance %d due date must equal its occurrence date", instance.ID)
		}
		key := instance.DueDate.Format("2006-01-02")
		if seenDates[key] {
			t.Errorf("duplicate occurrence date %s", key)
		}
		seenDates[key] = true
		// Sequential creation keeps ids in occurrence order.
		if instance.ID <= prevID {
			t.Errorf("instance ids not increasing: %d after %d", instance.ID, prevID)
		}
		prevID = instance.ID
	}

	// One master plus one create per occurrence.
	if counting.creates != 4 {
		t.Errorf("store creates: got %d, want 4", counting.creates)
	}
}

func TestCreateRecurringEmptyTitle(t *testing.T) {
	svc, counting := newRecurringFixture(t)
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.CreateRecurring(context.Background(), TaskInput{
		Title:   "   ",
		DueDate: &anchor,
	}, dailyPattern(3))
	if !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if counting.creates != 0 {
		t.Errorf("validation failure must not touch the store, got %d creates", counting.creates)
	}
}

func TestCreateRecurringMissingAnchor(t *testing.T) {
	svc, counting := newRecurringFixture(t)

	_, _, err := svc.CreateRecurring(context.Background(), TaskInput{Title: "Standup"}, dailyPattern(3))
	if !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if counting.creates != 0 {
		t.Errorf("got %d creates, want 0", counting.creates)
	}
}

func TestCreateRecurringInvalidPattern(t *testing.T) {
	svc, counting := newRecurringFixture(t)
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	bad := recurrence.Pattern{Type: recurrence.Daily, Interval: 0, End: recurrence.End{Kind: recurrence.EndNever}}
	_, _, err := svc.CreateRecurring(context.Background(), TaskInput{Title: "Standup", DueDate: &anchor}, bad)
	if !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if counting.creates != 0 {
		t.Errorf("got %d creates, want 0", counting.creates)
	}
}

func TestCreateRecurringPartialFailure(t *testing.T) {
	svc, counting := newRecurringFixture(t)
	counting.failAt = 3 // master and first instance succeed
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	master, instances, err := svc.CreateRecurring(context.Background(), TaskInput{
		Title:   "Standup",
		DueDate: &anchor,
	}, dailyPattern(5))
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if master == nil {
		t.Fatal("master should be returned even on partial failure")
	}
	if len(instances) != 1 {
		t.Fatalf("got %d instances, want the 1 written before the failure", len(instances))
	}

	// No rollback: what was written stays written.
	persisted, getErr := counting.TaskStore.GetAll(context.Background())
	if getErr != nil {
		t.Fatalf("get all: %v", getErr)
	}
	if len(persisted) != 2 {
		t.Errorf("got %d persisted tasks, want 2 (master + one instance)", len(persisted))
	}
}

func TestPreview(t *testing.T) {
	svc, counting := newRecurringFixture(t)
	anchor := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	preview := svc.Preview(dailyPattern(30), anchor)
	if preview.Total != 30 {
		t.Errorf("total: got %d, want 30", preview.Total)
	}
	if len(preview.Dates) != recurrence.PreviewLimit {
		t.Errorf("preview dates: got %d, want %d", len(preview.Dates), recurrence.PreviewLimit)
	}
	if len(preview.Labels) != len(preview.Dates) {
		t.Errorf("labels and dates out of sync: %d vs %d", len(preview.Labels), len(preview.Dates))
	}
	if preview.Labels[0] != "Monday, Jan 1, 2024" {
		t.Errorf("first label: got %q", preview.Labels[0])
	}
	if preview.Summary != "Daily for 30 occurrences" {
		t.Errorf("summary: got %q", preview.Summary)
	}
	if counting.creates != 0 {
		t.Errorf("preview must not write, got %d creates", counting.creates)
	}
}

func TestPreviewUnusableInputYieldsEmpty(t *testing.T) {
	svc, _ := newRecurringFixture(t)

	preview := svc.Preview(dailyPattern(5), time.Time{})
	if preview.Total != 0 || len(preview.Dates) != 0 {
		t.Errorf("zero anchor: got %+v, want empty preview", preview)
	}

	bad := recurrence.Pattern{Type: "yearly", Interval: 1, End: recurrence.End{Kind: recurrence.EndNever}}
	preview = svc.Preview(bad, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	if preview.Total != 0 || len(preview.Dates) != 0 {
		t.Errorf("bad pattern: got %+v, want empty preview", preview)
	}
}
