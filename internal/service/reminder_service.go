package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// ReminderService builds the daily digest pushed through the notifier: tasks
// that are overdue and tasks due today. Master recurring tasks are templates
// and never show up; their instances do.
type ReminderService struct {
	tasks      store.TaskStore
	categories store.CategoryStore
}

func NewReminderService(tasks store.TaskStore, categories store.CategoryStore) *ReminderService {
	return &ReminderService{tasks: tasks, categories: categories}
}

// DailyDigest renders the digest for the given moment. It returns an empty
// string when nothing is overdue or due today, so callers can skip sending.
func (s *ReminderService) DailyDigest(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return "", err
	}

	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return "", err
	}
	catNames := make(map[uint]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var overdue, dueToday []model.Task
	for _, task := range tasks {
		if task.Completed || task.IsRecurring || task.DueDate == nil {
			continue
		}
		due := task.DueDate.In(now.Location())
		switch {
		case due.Before(dayStart):
			overdue = append(overdue, task)
		case due.Before(dayEnd):
			dueToday = append(dueToday, task)
		}
	}

	if len(overdue) == 0 && len(dueToday) == 0 {
		return "", nil
	}

	byDueDate := func(tasks []model.Task) {
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		})
	}
	byDueDate(overdue)
	byDueDate(dueToday)

	var builder strings.Builder
	builder.WriteString("<b>TaskFlow digest</b>\n")
	builder.WriteString(fmt.Sprintf("%s\n", now.Format("Mon, Jan 2 2006")))

	if len(overdue) > 0 {
		builder.WriteString("\n<b>Overdue</b>\n")
		for _, task := range overdue {
			builder.WriteString(formatDigestLine(task, catNames, now))
		}
	}
	if len(dueToday) > 0 {
		builder.WriteString("\n<b>Due today</b>\n")
		for _, task := range dueToday {
			builder.WriteString(formatDigestLine(task, catNames, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatDigestLine(task model.Task, catNames map[uint]string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("• ")
	sb.WriteString(html.EscapeString(strings.TrimSpace(task.Title)))

	if task.CategoryID != nil {
		if name, ok := catNames[*task.CategoryID]; ok && strings.TrimSpace(name) != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(strings.TrimSpace(name))))
		}
	}

	due := task.DueDate.In(now.Location())
	if due.Before(now) {
		sb.WriteString(fmt.Sprintf(" — due %s", due.Format("Jan 2")))
	}
	if task.Priority == model.PriorityHigh {
		sb.WriteString(" ❗")
	}

	sb.WriteByte('\n')
	return sb.String()
}
