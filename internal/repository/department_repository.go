package repository

import (
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"gorm.io/gorm"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(id uint64) (*models.Department, error) {
	var dept models.Department
	if err := r.db.First(&dept, id).Error; err != nil {
		return nil, translate(err, "department", id)
	}
	return &dept, nil
}

// List lists all departments ordered by name
func (r *GormDepartmentRepository) List() ([]models.Department, error) {
	var depts []models.Department
	if err := r.db.Order("name ASC").Find(&depts).Error; err != nil {
		return nil, apierrors.StoreUnavailable(err)
	}
	return depts, nil
}
