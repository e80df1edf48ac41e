package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/query"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskRepositoryTestSuite exercises the gorm task repository against an
// in-memory database.
type TaskRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo TaskRepository

	engineering models.Department
	finance     models.Department
	manager     models.User
	employee    models.User
	lead        models.User
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Role{},
		&models.Department{},
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.repo = NewTaskRepository(suite.db)

	suite.engineering = models.Department{Name: "Engineering"}
	suite.finance = models.Department{Name: "Finance"}
	suite.Require().NoError(suite.db.Create(&suite.engineering).Error)
	suite.Require().NoError(suite.db.Create(&suite.finance).Error)

	suite.manager = suite.createUser("manager1", 2, nil)
	suite.employee = suite.createUser("emp1", 4, &suite.engineering.ID)
	suite.lead = suite.createUser("lead1", 3, &suite.finance.ID)
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskRepositoryTestSuite) createUser(username string, roleID uint8, deptID *uint64) models.User {
	user := models.User{
		Username:     username,
		PasswordHash: "hashed",
		Email:        username + "@example.com",
		DepartmentID: deptID,
		RoleID:       roleID,
	}
	suite.Require().NoError(suite.db.Create(&user).Error)
	return user
}

func (suite *TaskRepositoryTestSuite) createTask(name string, assignedTo uint64, deptID uint64, status models.TaskStatus, due *time.Time) models.Task {
	task := models.Task{
		Name:         name,
		Description:  "desc of " + name,
		AssignedTo:   assignedTo,
		AssignedBy:   suite.manager.ID,
		DepartmentID: deptID,
		Status:       status,
		DueDate:      due,
		Version:      1,
	}
	suite.Require().NoError(suite.db.Create(&task).Error)
	return task
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (suite *TaskRepositoryTestSuite) TestCreate_Success() {
	task := &models.Task{
		Name:         "Ship release",
		AssignedTo:   suite.employee.ID,
		AssignedBy:   suite.manager.ID,
		DepartmentID: suite.engineering.ID,
		Status:       models.TaskStatusPending,
		Version:      1,
	}

	err := suite.repo.Create(task)
	suite.Require().NoError(err)
	suite.NotZero(task.ID)

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Equal("Ship release", found.Name)
}

func (suite *TaskRepositoryTestSuite) TestCreate_DepartmentMismatch() {
	task := &models.Task{
		Name:         "Wrong department",
		AssignedTo:   suite.employee.ID, // engineering
		AssignedBy:   suite.manager.ID,
		DepartmentID: suite.finance.ID,
		Status:       models.TaskStatusPending,
		Version:      1,
	}

	err := suite.repo.Create(task)
	suite.Require().Error(err)
	suite.True(apierrors.IsKind(err, apierrors.KindDepartmentMismatch))

	// Nothing was written.
	tasks, listErr := suite.repo.List(query.Spec{})
	suite.Require().NoError(listErr)
	suite.Empty(tasks)
}

func (suite *TaskRepositoryTestSuite) TestCreate_UnknownAssignee() {
	task := &models.Task{
		Name:         "Ghost assignee",
		AssignedTo:   9999,
		AssignedBy:   suite.manager.ID,
		DepartmentID: suite.engineering.ID,
		Status:       models.TaskStatusPending,
		Version:      1,
	}

	err := suite.repo.Create(task)
	suite.Require().Error(err)

	de, ok := apierrors.AsDomain(err)
	suite.Require().True(ok)
	suite.Equal(apierrors.KindValidation, de.Kind)
	suite.Equal("assigned_to", de.Field)
}

func (suite *TaskRepositoryTestSuite) TestList_OrderedByID() {
	suite.createTask("b task", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)
	suite.createTask("a task", suite.lead.ID, suite.finance.ID, models.TaskStatusCompleted, nil)

	tasks, err := suite.repo.List(query.Spec{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Less(tasks[0].ID, tasks[1].ID)
	suite.Equal("emp1", tasks[0].Assignee.Username, "relations are preloaded")
}

func (suite *TaskRepositoryTestSuite) TestList_VisibilityScope() {
	suite.createTask("mine", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)
	suite.createTask("theirs", suite.lead.ID, suite.finance.ID, models.TaskStatusCompleted, nil)

	tasks, err := suite.repo.List(query.Spec{AssignedTo: &suite.employee.ID})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("mine", tasks[0].Name)
}

func (suite *TaskRepositoryTestSuite) TestList_StatusAndDepartmentFilters() {
	suite.createTask("t1", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)
	suite.createTask("t2", suite.employee.ID, suite.engineering.ID, models.TaskStatusCompleted, nil)
	suite.createTask("t3", suite.lead.ID, suite.finance.ID, models.TaskStatusPending, nil)

	pending := models.TaskStatusPending
	tasks, err := suite.repo.List(query.Spec{Status: &pending})
	suite.Require().NoError(err)
	suite.Len(tasks, 2)

	dept := "Finance"
	tasks, err = suite.repo.List(query.Spec{DepartmentName: &dept})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("t3", tasks[0].Name)
}

func (suite *TaskRepositoryTestSuite) TestList_DateRange() {
	suite.createTask("jan", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, date(2025, 1, 15))
	suite.createTask("mar", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, date(2025, 3, 15))

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	tasks, err := suite.repo.List(query.Spec{DueDateFrom: &from})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("mar", tasks[0].Name)

	// Inverted bounds: a valid query that matches nothing.
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	from = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tasks, err = suite.repo.List(query.Spec{DueDateFrom: &from, DueDateTo: &to})
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *TaskRepositoryTestSuite) TestList_FreeTextSearch() {
	suite.createTask("Quarterly Report", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)
	suite.createTask("Cleanup", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)

	tasks, err := suite.repo.List(query.Spec{Search: "quarterly"})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("Quarterly Report", tasks[0].Name)

	// Matches description as well.
	tasks, err = suite.repo.List(query.Spec{Search: "desc of cleanup"})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("Cleanup", tasks[0].Name)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_FullPatch() {
	task := suite.createTask("old", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)

	name := "new name"
	desc := "new desc"
	status := models.TaskStatusInProgress
	updated, err := suite.repo.Update(task.ID, TaskPatch{
		Name:        &name,
		Description: &desc,
		Status:      &status,
		DueDate:     date(2025, 6, 1),
	})
	suite.Require().NoError(err)

	suite.Equal("new name", updated.Name)
	suite.Equal("new desc", updated.Description)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Require().NotNil(updated.DueDate)
	suite.Equal(task.Version+1, updated.Version)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_StatusOnlyRejectsOtherFields() {
	task := suite.createTask("locked", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)

	name := "sneaky rename"
	status := models.TaskStatusCompleted
	_, err := suite.repo.Update(task.ID, TaskPatch{
		Name:       &name,
		Status:     &status,
		StatusOnly: true,
	})
	suite.Require().Error(err)
	suite.True(apierrors.IsKind(err, apierrors.KindValidation))

	// The task is untouched.
	found, findErr := suite.repo.FindByID(task.ID)
	suite.Require().NoError(findErr)
	suite.Equal("locked", found.Name)
	suite.Equal(models.TaskStatusPending, found.Status)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_StatusOnlySuccess() {
	task := suite.createTask("flip", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)

	status := models.TaskStatusCompleted
	updated, err := suite.repo.Update(task.ID, TaskPatch{Status: &status, StatusOnly: true})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, updated.Status)
}

func (suite *TaskRepositoryTestSuite) TestUpdate_VersionConflict() {
	task := suite.createTask("contended", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)

	stale := task.Version
	status := models.TaskStatusCompleted
	_, err := suite.repo.Update(task.ID, TaskPatch{Status: &status, ExpectedVersion: &stale})
	suite.Require().NoError(err, "first writer wins")

	_, err = suite.repo.Update(task.ID, TaskPatch{Status: &status, ExpectedVersion: &stale})
	suite.Require().Error(err)
	suite.True(apierrors.IsKind(err, apierrors.KindConflict))
}

func (suite *TaskRepositoryTestSuite) TestDelete_Hard() {
	task := suite.createTask("doomed", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)

	suite.Require().NoError(suite.repo.Delete(task.ID))

	_, err := suite.repo.FindByID(task.ID)
	suite.True(apierrors.IsKind(err, apierrors.KindNotFound))

	status := models.TaskStatusCompleted
	_, err = suite.repo.Update(task.ID, TaskPatch{Status: &status})
	suite.True(apierrors.IsKind(err, apierrors.KindNotFound))

	suite.True(apierrors.IsKind(suite.repo.Delete(task.ID), apierrors.KindNotFound))
}

func (suite *TaskRepositoryTestSuite) TestCount() {
	suite.createTask("t1", suite.employee.ID, suite.engineering.ID, models.TaskStatusPending, nil)
	suite.createTask("t2", suite.lead.ID, suite.finance.ID, models.TaskStatusPending, nil)

	total, err := suite.repo.Count(query.Spec{})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)

	total, err = suite.repo.Count(query.Spec{AssignedTo: &suite.lead.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}
