package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusOverdue    TaskStatus = "Overdue"
)

// TaskStatuses lists every valid status value.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusOverdue,
}

// Valid reports whether s is one of the fixed status values.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Task is the canonical task record. Deletes are hard deletes: there is no
// soft-delete column, so a deleted ID can never be fetched or updated again.
// Version backs lost-update detection on edits.
type Task struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	AssignedTo   uint64     `gorm:"not null;index" json:"assigned_to"`
	AssignedBy   uint64     `gorm:"not null" json:"assigned_by"`
	DepartmentID uint64     `gorm:"not null;index" json:"department_id"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	DueDate      *time.Time `gorm:"index" json:"due_date"`
	Version      uint64     `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Assignee   User       `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Assigner   User       `gorm:"foreignKey:AssignedBy" json:"assigner,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
