package store

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/model"
)

// SeedDemoData loads a small fixed dataset into the memory store so the app
// is usable out of the box in development mode.
func (m *MemoryStore) SeedDemoData() error {
	ctx := context.Background()
	categories := m.Categories()
	tasks := m.Tasks()

	work, err := categories.Create(ctx, CategoryDraft{Name: "Work", Color: "#5B47E0"})
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	personal, err := categories.Create(ctx, CategoryDraft{Name: "Personal", Color: "#FF6B6B"})
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if _, err := categories.Create(ctx, CategoryDraft{Name: "Health", Color: "#4ECDC4"}); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)
	nextWeek := today.AddDate(0, 0, 7)

	drafts := []TaskDraft{
		{
			Title:       "Prepare quarterly review",
			Description: "Slides plus the revenue summary",
			Priority:    model.PriorityHigh,
			CategoryID:  &work.ID,
			DueDate:     &yesterday,
		},
		{
			Title:      "Book dentist appointment",
			Priority:   model.PriorityMedium,
			CategoryID: &personal.ID,
			DueDate:    &today,
		},
		{
			Title:      "Plan weekend trip",
			Priority:   model.PriorityLow,
			CategoryID: &personal.ID,
			DueDate:    &nextWeek,
		},
	}
	for _, draft := range drafts {
		if _, err := tasks.Create(ctx, draft); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}
	return nil
}
