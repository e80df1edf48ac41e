package dto

import (
	"time"

	"github.com/taskdept/taskdept/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint64  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty"`
	RoleID       uint8   `json:"role_id,omitempty"`
}

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskView represents a task in API responses
type TaskView struct {
	ID           uint64            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	AssignedTo   uint64            `json:"assigned_to"`
	AssignedBy   uint64            `json:"assigned_by"`
	DepartmentID uint64            `json:"department_id"`
	Status       models.TaskStatus `json:"status"`
	DueDate      *string           `json:"due_date"`
	Version      uint64            `json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Assignee     *UserDTO          `json:"assignee,omitempty"`
	Assigner     *UserDTO          `json:"assigner,omitempty"`
	Department   *DepartmentDTO    `json:"department,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskView `json:"tasks"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		DepartmentID: user.DepartmentID,
		RoleID:       user.RoleID,
	}
}

// ToDepartmentDTO converts a Department model to DepartmentDTO
func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	return DepartmentDTO{ID: dept.ID, Name: dept.Name}
}

// ToTaskView converts a Task model to TaskView
func ToTaskView(task models.Task) TaskView {
	view := TaskView{
		ID:           task.ID,
		Name:         task.Name,
		Description:  task.Description,
		AssignedTo:   task.AssignedTo,
		AssignedBy:   task.AssignedBy,
		DepartmentID: task.DepartmentID,
		Status:       task.Status,
		Version:      task.Version,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		view.DueDate = &due
	}

	// Include relations only when preloaded
	if task.Assignee.ID != 0 {
		assignee := ToUserDTO(task.Assignee)
		view.Assignee = &assignee
	}
	if task.Assigner.ID != 0 {
		assigner := ToUserDTO(task.Assigner)
		view.Assigner = &assigner
	}
	if task.Department.ID != 0 {
		dept := ToDepartmentDTO(task.Department)
		view.Department = &dept
	}

	return view
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	views := make([]TaskView, len(tasks))
	for i, task := range tasks {
		views[i] = ToTaskView(task)
	}

	return TaskListResponse{
		Tasks:      views,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
