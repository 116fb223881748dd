package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/recurrence"
	"taskflow/internal/store"
)

// PreviewResult is what the UI shows before the user confirms a recurring
// task: at most recurrence.PreviewLimit upcoming dates, the size of the full
// expansion and the rule summary.
type PreviewResult struct {
	Dates   []time.Time `json:"dates"`
	Labels  []string    `json:"labels"`
	Total   int         `json:"total"`
	Summary string      `json:"summary"`
}

// RecurringService expands recurrence patterns and materializes master tasks
// with their instances.
type RecurringService struct {
	tasks store.TaskStore
}

func NewRecurringService(tasks store.TaskStore) *RecurringService {
	return &RecurringService{tasks: tasks}
}

// Preview expands the pattern without touching the store. An unusable anchor
// or pattern yields an empty preview rather than an error, so the UI can show
// "no preview available".
func (s *RecurringService) Preview(pattern recurrence.Pattern, anchor time.Time) PreviewResult {
	dates := recurrence.Expand(pattern, anchor)
	preview := dates
	if len(preview) > recurrence.PreviewLimit {
		preview = preview[:recurrence.PreviewLimit]
	}
	labels := make([]string, len(preview))
	for i, d := range preview {
		labels[i] = d.Format("Monday, Jan 2, 2006")
	}
	return PreviewResult{
		Dates:   preview,
		Labels:  labels,
		Total:   len(dates),
		Summary: recurrence.Describe(pattern),
	}
}

// CreateRecurring persists one master task carrying the recurrence metadata
// and one instance per occurrence date, sequentially, so instance ids grow in
// occurrence order. There is no rollback: if an instance write fails, the
// master and the already-written instances stay persisted and the error is
// returned alongside them.
func (s *RecurringService) CreateRecurring(ctx context.Context, input TaskInput, pattern recurrence.Pattern) (*model.Task, []model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, errValidation("title is required")
	}
	if input.Priority != "" && !model.ValidPriority(input.Priority) {
		return nil, nil, errValidation("unknown priority %q", input.Priority)
	}
	if input.DueDate == nil || input.DueDate.IsZero() {
		return nil, nil, errValidation("a due date is required to anchor the recurrence")
	}
	if err := pattern.Validate(); err != nil {
		return nil, nil, errValidation("invalid recurrence pattern: %v", err)
	}

	dates := recurrence.Expand(pattern, *input.DueDate)
	if len(dates) == 0 {
		return nil, nil, errValidation("pattern produces no occurrences")
	}

	title := strings.TrimSpace(input.Title)
	master, err := s.tasks.Create(ctx, store.TaskDraft{
		Title:             title,
		Description:       input.Description,
		Priority:          input.Priority,
		CategoryID:        input.CategoryID,
		DueDate:           input.DueDate,
		IsRecurring:       true,
		RecurrenceRule:    recurrence.Describe(pattern),
		RecurrencePattern: &pattern,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create master task: %w", err)
	}

	instances := make([]model.Task, 0, len(dates))
	for _, date := range dates {
		occurrence := date
		instance, err := s.tasks.Create(ctx, store.TaskDraft{
			Title:                title,
			Description:          input.Description,
			Priority:             input.Priority,
			CategoryID:           input.CategoryID,
			DueDate:              &occurrence,
			IsRecurrenceInstance: true,
			ParentTaskID:         &master.ID,
			RecurrenceDate:       &occurrence,
		})
		if err != nil {
			return master, instances, fmt.Errorf("create instance for %s: %w", occurrence.Format("2006-01-02"), err)
		}
		instances = append(instances, *instance)
	}

	return master, instances, nil
}
