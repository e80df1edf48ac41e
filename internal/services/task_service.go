package services

import (
	"fmt"
	"time"

	"github.com/taskdept/taskdept/internal/constants"
	"github.com/taskdept/taskdept/internal/dashboard"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/policy"
	"github.com/taskdept/taskdept/internal/query"
	"github.com/taskdept/taskdept/internal/repository"
)

// TaskService is the facade the presentation layer talks to. Every call
// resolves the principal's role first and consults the access policy before
// any write; a deny never leaves partial side effects behind.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, deptRepo repository.DepartmentRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		deptRepo: deptRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name         string
	Description  string
	AssignedTo   uint64
	DepartmentID uint64
	Status       string
	DueDate      string
}

// EditTaskInput represents a partial task edit. Nil fields are untouched.
// ExpectedVersion, when set, requests lost-update detection.
type EditTaskInput struct {
	Name            *string
	Description     *string
	AssignedTo      *uint64
	DepartmentID    *uint64
	Status          *string
	DueDate         *string
	ClearDueDate    bool
	ExpectedVersion *uint64
}

// resolvePrincipal loads the principal and converts its stored role id into
// the role enum. Unknown role ids never cross into the policy.
func (s *TaskService) resolvePrincipal(principalID uint64) (*models.User, policy.Role, error) {
	user, err := s.userRepo.FindByID(principalID)
	if err != nil {
		return nil, 0, err
	}

	role, ok := policy.RoleFromID(user.RoleID)
	if !ok {
		return nil, 0, apierrors.Validation("role_id", fmt.Sprintf("user %d has unknown role %d", user.ID, user.RoleID))
	}

	return user, role, nil
}

// ListVisibleTasks returns every task the principal may see, in id order.
// Equivalent to ApplyFilters with empty criteria.
func (s *TaskService) ListVisibleTasks(principalID uint64) ([]models.Task, error) {
	return s.ApplyFilters(principalID, query.Criteria{})
}

// ApplyFilters compiles the criteria together with the principal's
// visibility scope and runs the composed query.
func (s *TaskService) ApplyFilters(principalID uint64, criteria query.Criteria) ([]models.Task, error) {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return nil, err
	}

	spec, err := query.Compile(criteria, policy.Visible(role, principalID))
	if err != nil {
		return nil, err
	}

	return s.taskRepo.List(spec)
}

// CountFiltered returns the total matching a criteria set, for pagination.
func (s *TaskService) CountFiltered(principalID uint64, criteria query.Criteria) (int64, error) {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return 0, err
	}

	spec, err := query.Compile(criteria, policy.Visible(role, principalID))
	if err != nil {
		return 0, err
	}

	return s.taskRepo.Count(spec)
}

// GetTask returns a single task if the principal may see it.
func (s *TaskService) GetTask(principalID, taskID uint64) (*models.Task, error) {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID, "Assignee", "Assigner", "Department")
	if err != nil {
		return nil, err
	}

	if scope := policy.Visible(role, principalID); scope.AssignedTo != nil && task.AssignedTo != *scope.AssignedTo {
		return nil, apierrors.Authorization(policy.ReasonNotOwner, "task is not assigned to you")
	}

	return task, nil
}

// CreateTask creates a task on behalf of the principal. AssignedBy is always
// the creating principal. The department invariant is enforced by the
// repository inside the insert transaction.
func (s *TaskService) CreateTask(principalID uint64, input CreateTaskInput) (*models.Task, error) {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return nil, err
	}

	if d := policy.Authorize(role, policy.OpCreateTask, principalID, 0); !d.Allowed {
		return nil, apierrors.Authorization(d.Reason, "your role may not create tasks")
	}

	if input.Name == "" {
		return nil, apierrors.Validation("name", "name is required")
	}
	if input.AssignedTo == 0 {
		return nil, apierrors.Validation("assigned_to", "assigned user is required")
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, apierrors.Validation("status", "unknown task status")
		}
	}

	var dueDate *time.Time
	if input.DueDate != "" {
		parsed, err := time.Parse(constants.DateFormat, input.DueDate)
		if err != nil {
			return nil, apierrors.Validation("due_date", "invalid date, expected YYYY-MM-DD")
		}
		dueDate = &parsed
	}

	if _, err := s.deptRepo.FindByID(input.DepartmentID); err != nil {
		if apierrors.IsKind(err, apierrors.KindNotFound) {
			return nil, apierrors.Validation("department_id", "department does not exist")
		}
		return nil, err
	}

	task := &models.Task{
		Name:         input.Name,
		Description:  input.Description,
		AssignedTo:   input.AssignedTo,
		AssignedBy:   principalID,
		DepartmentID: input.DepartmentID,
		Status:       status,
		DueDate:      dueDate,
		Version:      1,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Assigner", "Department")
}

// EditTask applies a patch to a task. Admin and Manager may edit every
// field; Project Lead and Employee may only change the status of tasks
// assigned to themselves, and the repository rejects anything wider.
func (s *TaskService) EditTask(principalID, taskID uint64, input EditTaskInput) (*models.Task, error) {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}

	patch := repository.TaskPatch{
		Name:            input.Name,
		Description:     input.Description,
		AssignedTo:      input.AssignedTo,
		DepartmentID:    input.DepartmentID,
		DueDate:         nil,
		ClearDueDate:    input.ClearDueDate,
		ExpectedVersion: input.ExpectedVersion,
	}

	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, apierrors.Validation("status", "unknown task status")
		}
		patch.Status = &status
	}

	if input.DueDate != nil {
		parsed, err := time.Parse(constants.DateFormat, *input.DueDate)
		if err != nil {
			return nil, apierrors.Validation("due_date", "invalid date, expected YYYY-MM-DD")
		}
		patch.DueDate = &parsed
	}

	if role.Manages() {
		if d := policy.Authorize(role, policy.OpEditTaskFull, principalID, task.AssignedTo); !d.Allowed {
			return nil, apierrors.Authorization(d.Reason, "your role may not edit tasks")
		}
	} else {
		d := policy.Authorize(role, policy.OpEditTaskStatusOnly, principalID, task.AssignedTo)
		if !d.Allowed {
			if d.Reason == policy.ReasonNotOwner {
				return nil, apierrors.Authorization(d.Reason, "task is not assigned to you")
			}
			return nil, apierrors.Authorization(d.Reason, "your role may not edit tasks")
		}
		patch.StatusOnly = true
	}

	return s.taskRepo.Update(taskID, patch)
}

// DeleteTask removes a task for good.
func (s *TaskService) DeleteTask(principalID, taskID uint64) error {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return err
	}

	if d := policy.Authorize(role, policy.OpDeleteTask, principalID, 0); !d.Allowed {
		return apierrors.Authorization(d.Reason, "your role may not delete tasks")
	}

	return s.taskRepo.Delete(taskID)
}

// DashboardFor summarizes the principal's visible task set.
func (s *TaskService) DashboardFor(principalID uint64) (dashboard.Summary, error) {
	tasks, err := s.ListVisibleTasks(principalID)
	if err != nil {
		return dashboard.Summary{}, err
	}

	return dashboard.Summarize(tasks), nil
}

// ListDepartments exposes the department reference data for filter choices.
func (s *TaskService) ListDepartments() ([]models.Department, error) {
	return s.deptRepo.List()
}

// ListAssignableUsers lists users a task can be assigned to.
func (s *TaskService) ListAssignableUsers(principalID uint64) ([]models.User, error) {
	_, role, err := s.resolvePrincipal(principalID)
	if err != nil {
		return nil, err
	}

	if d := policy.Authorize(role, policy.OpCreateTask, principalID, 0); !d.Allowed {
		return nil, apierrors.Authorization(d.Reason, "your role may not assign tasks")
	}

	return s.userRepo.ListAssignable()
}
