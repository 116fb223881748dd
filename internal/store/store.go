// Package store defines the persistence contract for tasks and categories
// plus its two implementations: a SQLite-backed store for normal operation
// and an in-memory store for development and tests. Which one runs is an
// explicit wiring decision in the composition root, never a hidden global.
package store

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/recurrence"
)

// ErrNotFound is returned when a task or category id does not exist.
var ErrNotFound = errors.New("record not found")

// TaskDraft carries the caller-supplied fields of a new task. The store owns
// identity and timestamp assignment; Completed always starts false.
type TaskDraft struct {
	Title                string
	Description          string
	Priority             string
	CategoryID           *uint
	DueDate              *time.Time
	IsRecurring          bool
	IsRecurrenceInstance bool
	RecurrenceRule       string
	RecurrencePattern    *recurrence.Pattern
	ParentTaskID         *uint
	RecurrenceDate       *time.Time
}

// TaskPatch describes a partial update. Nil fields are left untouched; the
// Clear flags reset their optional counterparts to none.
type TaskPatch struct {
	Title         *string
	Description   *string
	Priority      *string
	CategoryID    *uint
	ClearCategory bool
	DueDate       *time.Time
	ClearDueDate  bool
	Completed     *bool
}

// TaskStore is the persistence collaborator consumed by the services.
type TaskStore interface {
	GetAll(ctx context.Context) ([]model.Task, error)
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, draft TaskDraft) (*model.Task, error)
	Update(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id uint) (bool, error)
	BulkUpdate(ctx context.Context, ids []uint, patch TaskPatch) ([]model.Task, error)
	BulkDelete(ctx context.Context, ids []uint) (bool, error)
	ListRecurring(ctx context.Context) ([]model.Task, error)
	ListInstances(ctx context.Context, parentID uint) ([]model.Task, error)
}

// CategoryDraft carries the caller-supplied fields of a new category.
type CategoryDraft struct {
	Name  string
	Color string
}

// CategoryPatch describes a partial category update.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// CategoryStore manages task categories. GetAll fills in per-category task
// counts.
type CategoryStore interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, draft CategoryDraft) (*model.Category, error)
	Update(ctx context.Context, id uint, patch CategoryPatch) (*model.Category, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

func taskFromDraft(draft TaskDraft) model.Task {
	priority := draft.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	return model.Task{
		Title:                draft.Title,
		Description:          draft.Description,
		Priority:             priority,
		CategoryID:           draft.CategoryID,
		DueDate:              draft.DueDate,
		Completed:            false,
		IsRecurring:          draft.IsRecurring,
		IsRecurrenceInstance: draft.IsRecurrenceInstance,
		RecurrenceRule:       draft.RecurrenceRule,
		RecurrencePattern:    draft.RecurrencePattern,
		ParentTaskID:         draft.ParentTaskID,
		RecurrenceDate:       draft.RecurrenceDate,
	}
}

// applyTaskPatch mutates task in place. CompletedAt is set on the transition
// to completed and cleared on the transition back; re-completing an already
// completed task keeps the original timestamp.
func applyTaskPatch(task *model.Task, patch TaskPatch, now time.Time) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	switch {
	case patch.ClearCategory:
		task.CategoryID = nil
	case patch.CategoryID != nil:
		task.CategoryID = patch.CategoryID
	}
	switch {
	case patch.ClearDueDate:
		task.DueDate = nil
	case patch.DueDate != nil:
		task.DueDate = patch.DueDate
	}
	if patch.Completed != nil && *patch.Completed != task.Completed {
		task.Completed = *patch.Completed
		if task.Completed {
			completedAt := now
			task.CompletedAt = &completedAt
		} else {
			task.CompletedAt = nil
		}
	}
	task.UpdatedAt = now
}
