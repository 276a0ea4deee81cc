package models

import (
	"time"

	"github.com/tenkil247/taskmanager/internal/daterange"
)

// Task belongs to exactly one user and is only ever visible through its owner.
// Range is derived from Date and recomputed on every date update.
type Task struct {
	ID          string          `json:"id"`
	TaskName    string          `json:"taskName"`
	Description string          `json:"description,omitempty"`
	Completed   bool            `json:"completed"`
	Grade       string          `json:"grade"`
	Priority    string          `json:"priority"`
	Date        *daterange.Span `json:"date,omitempty"`
	Range       daterange.Tag   `json:"range"`
	OwnerID     string          `json:"owner"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Default values for the categorical task fields.
const (
	DefaultGrade    = "normal"
	DefaultPriority = "normal"
)
