package services

import (
	"errors"
	"strings"

	"github.com/taskdept/taskdept/internal/constants"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/policy"
	"github.com/taskdept/taskdept/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username, password or designation")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService resolves principals to accounts and handles registration.
type AuthService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, deptRepo repository.DepartmentRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		deptRepo: deptRepo,
	}
}

// LoginInput holds the credentials for authentication. Designation is
// optional; when given it must match the account's role, mirroring the
// login form's role selector.
type LoginInput struct {
	Username    string
	Password    string
	Designation string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if input.Designation != "" {
		role, ok := policy.RoleFromID(user.RoleID)
		if !ok || role.String() != input.Designation {
			return nil, ErrInvalidCredentials
		}
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apierrors.IsKind(err, apierrors.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// RegisterEmployeeInput is the employee-registration form.
type RegisterEmployeeInput struct {
	Username     string
	Password     string
	Email        string
	DepartmentID uint64
	RoleID       uint8
}

// RegisterEmployee creates a Project Lead or Employee account. Only Admin
// may register; the password is hashed before it is stored and never logged.
func (s *AuthService) RegisterEmployee(principalID uint64, input RegisterEmployeeInput) (*models.User, error) {
	principal, err := s.userRepo.FindByID(principalID)
	if err != nil {
		return nil, err
	}

	role, ok := policy.RoleFromID(principal.RoleID)
	if !ok {
		return nil, apierrors.Authorization(policy.ReasonRoleNotPermitted, "unknown principal role")
	}
	if d := policy.Authorize(role, policy.OpRegisterEmployee, principalID, 0); !d.Allowed {
		return nil, apierrors.Authorization(d.Reason, "only an admin may register employees")
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apierrors.Validation("username", "username is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, apierrors.Validation("password", "password too short")
	}
	newRole, ok := policy.RoleFromID(input.RoleID)
	if !ok || (newRole != policy.RoleProjectLead && newRole != policy.RoleEmployee) {
		return nil, apierrors.Validation("role_id", "role must be Project Lead or Employee")
	}

	if _, err := s.deptRepo.FindByID(input.DepartmentID); err != nil {
		if apierrors.IsKind(err, apierrors.KindNotFound) {
			return nil, apierrors.Validation("department_id", "department does not exist")
		}
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, apierrors.Conflict("username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierrors.Validation("password", "failed to hash password")
	}

	deptID := input.DepartmentID
	user := &models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Email:        input.Email,
		DepartmentID: &deptID,
		RoleID:       input.RoleID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}
