package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskdept/taskdept/internal/models"
)

// roleRows is the fixed role reference set. The ids are load-bearing: they
// match the policy.Role enum values.
var roleRows = []models.Role{
	{ID: 1, Name: "Admin"},
	{ID: 2, Name: "Manager"},
	{ID: 3, Name: "Project Lead"},
	{ID: 4, Name: "Employee"},
}

var defaultDepartments = []models.Department{
	{Name: "Engineering"},
	{Name: "Marketing"},
	{Name: "Finance"},
	{Name: "Human Resources"},
}

// Seed upserts the role rows and, only when the table is empty, inserts a
// default department set. Departments created by operators are never touched.
func Seed(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roleRows).Error; err != nil {
		return err
	}

	var deptCount int64
	if err := db.Model(&models.Department{}).Count(&deptCount).Error; err != nil {
		return err
	}
	if deptCount == 0 {
		if err := db.Create(&defaultDepartments).Error; err != nil {
			return err
		}
	}

	return nil
}
