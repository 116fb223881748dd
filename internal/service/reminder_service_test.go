package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskflow/internal/store"
)

func TestDailyDigest(t *testing.T) {
	mem := store.NewMemoryStore()
	tasks := mem.Tasks()
	svc := NewReminderService(tasks, mem.Categories())
	ctx := context.Background()

	now := time.Date(2024, time.May, 10, 8, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -2)
	today := time.Date(2024, time.May, 10, 17, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 5)

	cat, err := mem.Categories().Create(ctx, store.CategoryDraft{Name: "Work"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	if _, err := tasks.Create(ctx, store.TaskDraft{Title: "Pay invoice", DueDate: &overdue, Priority: "high", CategoryID: &cat.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tasks.Create(ctx, store.TaskDraft{Title: "Call plumber", DueDate: &today}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tasks.Create(ctx, store.TaskDraft{Title: "Far away", DueDate: &future}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Recurring masters are templates and stay out of the digest.
	if _, err := tasks.Create(ctx, store.TaskDraft{Title: "Template", DueDate: &overdue, IsRecurring: true}); err != nil {
		t.Fatalf("create: %v", err)
	}

	digest, err := svc.DailyDigest(ctx, now)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}

	for _, want := range []string{"Pay invoice", "Call plumber", "Overdue", "Due today", "Work"} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q:\n%s", want, digest)
		}
	}
	for _, unwanted := range []string{"Far away", "Template"} {
		if strings.Contains(digest, unwanted) {
			t.Errorf("digest should not mention %q:\n%s", unwanted, digest)
		}
	}
}

func TestDailyDigestEmptyWhenNothingDue(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := NewReminderService(mem.Tasks(), mem.Categories())

	digest, err := svc.DailyDigest(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if digest != "" {
		t.Errorf("expected empty digest, got:\n%s", digest)
	}
}
