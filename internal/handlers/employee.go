package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdept/taskdept/internal/dto"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/middleware"
	"github.com/taskdept/taskdept/internal/services"
)

// EmployeeHandler handles employee registration.
type EmployeeHandler struct {
	authService *services.AuthService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(authService *services.AuthService) *EmployeeHandler {
	return &EmployeeHandler{
		authService: authService,
	}
}

// RegisterEmployee creates a new Project Lead or Employee account.
func (h *EmployeeHandler) RegisterEmployee(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type RegisterRequest struct {
		Username     string `json:"username" binding:"required,min=3,max=50"`
		Password     string `json:"password" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		DepartmentID uint64 `json:"department_id" binding:"required"`
		RoleID       uint8  `json:"role_id" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.RegisterEmployee(userID, services.RegisterEmployeeInput{
		Username:     req.Username,
		Password:     req.Password,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		RoleID:       req.RoleID,
	})
	if err != nil {
		apierrors.RespondDomain(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}
