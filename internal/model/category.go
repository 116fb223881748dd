package model

import "time"

// DefaultCategoryColor is used when the UI does not pick one.
const DefaultCategoryColor = "#5B47E0"

// Category groups tasks by area (work, health, study, etc.).
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Color     string    `json:"color"`
	TaskCount int       `gorm:"-" json:"taskCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
