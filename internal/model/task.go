package model

import (
	"time"

	"taskflow/internal/recurrence"
)

// Priority levels understood by the UI.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single item in the planner. A recurring master task keeps
// the rule it was created with; each generated instance links back to its
// master through ParentTaskID and carries the occurrence date it stands for.
type Task struct {
	ID                   uint                `gorm:"primaryKey" json:"id"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	Priority             string              `gorm:"default:medium" json:"priority"`
	CategoryID           *uint               `gorm:"index" json:"categoryId"`
	DueDate              *time.Time          `json:"dueDate"`
	Completed            bool                `gorm:"default:false" json:"completed"`
	CompletedAt          *time.Time          `json:"completedAt"`
	IsRecurring          bool                `gorm:"default:false" json:"isRecurring"`
	IsRecurrenceInstance bool                `gorm:"default:false" json:"isRecurrenceInstance"`
	RecurrenceRule       string              `json:"recurrenceRule,omitempty"`
	RecurrencePattern    *recurrence.Pattern `gorm:"serializer:json" json:"recurrencePattern,omitempty"`
	ParentTaskID         *uint               `gorm:"index" json:"parentTaskId"`
	RecurrenceDate       *time.Time          `json:"recurrenceDate,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}
