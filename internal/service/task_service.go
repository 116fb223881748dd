package service

import (
	"context"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	CategoryID  *uint
	DueDate     *time.Time
}

// Task status filters understood by List.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusOverdue   = "overdue"
)

// TaskFilter narrows List results. Zero values mean "no restriction".
type TaskFilter struct {
	Query      string
	CategoryID *uint
	Priority   string
	Status     string
}

// TaskService wraps task-related business logic on top of the store.
type TaskService struct {
	tasks store.TaskStore
}

func NewTaskService(tasks store.TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.tasks.Create(ctx, store.TaskDraft{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Priority:    input.Priority,
		CategoryID:  input.CategoryID,
		DueDate:     input.DueDate,
	})
}

// List returns tasks matching the filter, newest first. Filtering happens in
// memory over the full task list, mirroring how the UI filters client-side.
func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	all, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tasks := make([]model.Task, 0, len(all))
	for _, t := range all {
		if matches(t, filter, now) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) Update(ctx context.Context, id uint, patch store.TaskPatch) (*model.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, id uint) (bool, error) {
	return s.tasks.Delete(ctx, id)
}

// BulkUpdate applies the same patch to every id, in the order given.
func (s *TaskService) BulkUpdate(ctx context.Context, ids []uint, patch store.TaskPatch) ([]model.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.tasks.BulkUpdate(ctx, ids, patch)
}

func (s *TaskService) BulkDelete(ctx context.Context, ids []uint) (bool, error) {
	return s.tasks.BulkDelete(ctx, ids)
}

func (s *TaskService) ListRecurring(ctx context.Context) ([]model.Task, error) {
	return s.tasks.ListRecurring(ctx)
}

func (s *TaskService) ListInstances(ctx context.Context, parentID uint) ([]model.Task, error) {
	return s.tasks.ListInstances(ctx, parentID)
}

func validateInput(input TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errValidation("title is required")
	}
	if input.Priority != "" && !model.ValidPriority(input.Priority) {
		return errValidation("unknown priority %q", input.Priority)
	}
	return nil
}

func validatePatch(patch store.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return errValidation("title cannot be empty")
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return errValidation("unknown priority %q", *patch.Priority)
	}
	return nil
}

func matches(task model.Task, filter TaskFilter, now time.Time) bool {
	if filter.Query != "" {
		query := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			return false
		}
	}
	if filter.CategoryID != nil {
		if task.CategoryID == nil || *task.CategoryID != *filter.CategoryID {
			return false
		}
	}
	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	switch filter.Status {
	case StatusPending:
		if task.Completed {
			return false
		}
	case StatusCompleted:
		if !task.Completed {
			return false
		}
	case StatusOverdue:
		if task.Completed || task.DueDate == nil || !task.DueDate.Before(now) {
			return false
		}
	}
	return true
}
