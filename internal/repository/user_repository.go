package repository

import (
	"errors"

	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/policy"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return apierrors.StoreUnavailable(err)
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Department").First(&user, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apierrors.StoreUnavailable(err)
	}
	return &user, nil
}

// ListAssignable lists users that tasks can be assigned to, i.e. the
// Project Lead and Employee roles.
func (r *GormUserRepository) ListAssignable() ([]models.User, error) {
	var users []models.User
	if err := r.db.
		Where("role_id IN ?", []uint8{uint8(policy.RoleProjectLead), uint8(policy.RoleEmployee)}).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, apierrors.StoreUnavailable(err)
	}
	return users, nil
}
