package repository

import (
	"time"

	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/query"
)

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched. StatusOnly marks a patch originating from a status-only
// restricted role; the repository itself rejects any other field on such a
// patch. ExpectedVersion, when set, turns the update into a compare-and-swap
// that reports Conflict instead of silently overwriting a lost update.
type TaskPatch struct {
	Name            *string
	Description     *string
	AssignedTo      *uint64
	DepartmentID    *uint64
	Status          *models.TaskStatus
	DueDate         *time.Time
	ClearDueDate    bool
	StatusOnly      bool
	ExpectedVersion *uint64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task after enforcing the department cross-field
	// invariant: the assignee must belong to the task's department.
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the compiled spec, ordered by id ascending
	List(spec query.Spec) ([]models.Task, error)

	// Count returns the number of tasks matching the spec, ignoring pagination
	Count(spec query.Spec) (int64, error)

	// Update applies a patch to a task and returns the updated record
	Update(id uint64, patch TaskPatch) (*models.Task, error)

	// Delete hard-deletes a task
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ListAssignable lists users holding task-assignable roles (3 and 4)
	ListAssignable() ([]models.User, error)
}

// DepartmentRepository defines the interface for department reference data
type DepartmentRepository interface {
	// FindByID finds a department by ID
	FindByID(id uint64) (*models.Department, error)

	// List lists all departments ordered by name
	List() ([]models.Department, error)
}
