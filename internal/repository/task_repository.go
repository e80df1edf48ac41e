package repository

import (
	"errors"

	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/query"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// translate maps a gorm error onto the domain taxonomy.
func translate(err error, entity string, id uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NotFoundID(entity, id)
	}
	return apierrors.StoreUnavailable(err)
}

// Create inserts a task. The department invariant is checked inside the
// insert transaction: the assignee must exist and belong to the task's
// department, otherwise nothing is written.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var assignee models.User
		if err := tx.First(&assignee, task.AssignedTo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierrors.Validation("assigned_to", "assigned user does not exist")
			}
			return apierrors.StoreUnavailable(err)
		}

		if assignee.DepartmentID == nil || *assignee.DepartmentID != task.DepartmentID {
			return apierrors.DepartmentMismatch()
		}

		var assigner models.User
		if err := tx.First(&assigner, task.AssignedBy).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierrors.Validation("assigned_by", "assigning user does not exist")
			}
			return apierrors.StoreUnavailable(err)
		}

		if err := tx.Create(task).Error; err != nil {
			return apierrors.StoreUnavailable(err)
		}
		return nil
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	q := r.db
	for _, p := range preload {
		q = q.Preload(p)
	}

	if err := q.First(&task, id).Error; err != nil {
		return nil, translate(err, "task", id)
	}
	return &task, nil
}

// apply turns the compiled spec into WHERE clauses. Conditions are added in
// a fixed order so the same spec always builds the same query.
func (r *GormTaskRepository) apply(spec query.Spec) *gorm.DB {
	q := r.db.Model(&models.Task{})

	if spec.AssignedTo != nil {
		q = q.Where("tasks.assigned_to = ?", *spec.AssignedTo)
	}
	if spec.Status != nil {
		q = q.Where("tasks.status = ?", *spec.Status)
	}
	if spec.DepartmentName != nil {
		q = q.Where("tasks.department_id IN (?)",
			r.db.Model(&models.Department{}).Select("id").Where("name = ?", *spec.DepartmentName))
	}
	if spec.DueDateFrom != nil {
		q = q.Where("tasks.due_date >= ?", *spec.DueDateFrom)
	}
	if spec.DueDateTo != nil {
		q = q.Where("tasks.due_date <= ?", *spec.DueDateTo)
	}
	if spec.Search != "" {
		pattern := "%" + spec.Search + "%"
		q = q.Where("LOWER(tasks.name) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}

	return q
}

// List retrieves tasks matching the spec in stable id order.
func (r *GormTaskRepository) List(spec query.Spec) ([]models.Task, error) {
	var tasks []models.Task

	q := r.apply(spec).Order("tasks.id ASC")
	if spec.Limit > 0 {
		q = q.Offset(spec.Offset).Limit(spec.Limit)
	}

	if err := q.
		Preload("Assignee").
		Preload("Assigner").
		Preload("Department").
		Find(&tasks).Error; err != nil {
		return nil, apierrors.StoreUnavailable(err)
	}

	return tasks, nil
}

// Count returns the number of tasks matching the spec.
func (r *GormTaskRepository) Count(spec query.Spec) (int64, error) {
	var total int64
	if err := r.apply(spec).Count(&total).Error; err != nil {
		return 0, apierrors.StoreUnavailable(err)
	}
	return total, nil
}

// Update applies a patch. Status-only patches may not touch any other field;
// this is enforced here so no caller can bypass it. When ExpectedVersion is
// set the update only lands if the row still carries that version.
func (r *GormTaskRepository) Update(id uint64, patch TaskPatch) (*models.Task, error) {
	if patch.StatusOnly {
		if patch.Name != nil || patch.Description != nil || patch.AssignedTo != nil ||
			patch.DepartmentID != nil || patch.DueDate != nil || patch.ClearDueDate {
			return nil, apierrors.Validation("patch", "only status may be changed")
		}
		if patch.Status == nil {
			return nil, apierrors.Validation("status", "status is required")
		}
	}

	var updated *models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return translate(err, "task", id)
		}

		if patch.ExpectedVersion != nil && task.Version != *patch.ExpectedVersion {
			return apierrors.Conflict("task was modified by another user")
		}

		if patch.Name != nil {
			if *patch.Name == "" {
				return apierrors.Validation("name", "name cannot be empty")
			}
			task.Name = *patch.Name
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.AssignedTo != nil {
			task.AssignedTo = *patch.AssignedTo
		}
		if patch.DepartmentID != nil {
			task.DepartmentID = *patch.DepartmentID
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return apierrors.Validation("status", "unknown task status")
			}
			task.Status = *patch.Status
		}
		if patch.ClearDueDate {
			task.DueDate = nil
		} else if patch.DueDate != nil {
			task.DueDate = patch.DueDate
		}

		task.Version++

		if err := tx.Save(&task).Error; err != nil {
			return apierrors.StoreUnavailable(err)
		}

		updated = &task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(updated.ID, "Assignee", "Assigner", "Department")
}

// Delete hard-deletes a task. The id is gone for good afterwards.
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return apierrors.StoreUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.NotFoundID("task", id)
	}
	return nil
}
