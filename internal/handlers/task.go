package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskdept/taskdept/internal/dto"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/middleware"
	"github.com/taskdept/taskdept/internal/query"
	"github.com/taskdept/taskdept/internal/services"
	"github.com/taskdept/taskdept/internal/utils"
)

// TaskHandler exposes the task service over HTTP.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user, optionally
// narrowed by filters. With no filter params this is the plain visible list.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	criteria := query.Criteria{
		Status:         c.Query("status"),
		DepartmentName: c.Query("department"),
		DueDateFrom:    c.Query("due_from"),
		DueDateTo:      c.Query("due_to"),
		FreeText:       c.Query("q"),
		Page:           params.Page,
		PageSize:       params.Limit,
	}

	tasks, err := h.taskService.ApplyFilters(userID, criteria)
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	total, err := h.taskService.CountFiltered(userID, criteria)
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskView(*task))
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		AssignedTo   uint64 `json:"assigned_to" binding:"required"`
		DepartmentID uint64 `json:"department_id" binding:"required"`
		Status       string `json:"status"`
		DueDate      string `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, services.CreateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		DepartmentID: req.DepartmentID,
		Status:       req.Status,
		DueDate:      req.DueDate,
	})
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskView(*task))
}

// UpdateTask applies a partial edit to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Name            *string `json:"name"`
		Description     *string `json:"description"`
		AssignedTo      *uint64 `json:"assigned_to"`
		DepartmentID    *uint64 `json:"department_id"`
		Status          *string `json:"status"`
		DueDate         *string `json:"due_date"`
		ClearDueDate    bool    `json:"clear_due_date"`
		ExpectedVersion *uint64 `json:"expected_version"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.EditTask(userID, taskID, services.EditTaskInput{
		Name:            req.Name,
		Description:     req.Description,
		AssignedTo:      req.AssignedTo,
		DepartmentID:    req.DepartmentID,
		Status:          req.Status,
		DueDate:         req.DueDate,
		ClearDueDate:    req.ClearDueDate,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskView(*task))
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ListDepartments returns the department reference data.
func (h *TaskHandler) ListDepartments(c *gin.Context) {
	depts, err := h.taskService.ListDepartments()
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	views := make([]dto.DepartmentDTO, len(depts))
	for i, dept := range depts {
		views[i] = dto.ToDepartmentDTO(dept)
	}

	c.JSON(http.StatusOK, gin.H{"departments": views})
}

// ListAssignableUsers returns users tasks can be assigned to.
func (h *TaskHandler) ListAssignableUsers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.taskService.ListAssignableUsers(userID)
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	views := make([]dto.UserDTO, len(users))
	for i, user := range users {
		views[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{"users": views})
}
