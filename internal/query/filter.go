// Package query compiles the optional task filter criteria and the policy
// visibility scope into a single Spec the repository executes. Compilation is
// pure and deterministic: identical input always yields an identical Spec.
package query

import (
	"strings"
	"time"

	"github.com/taskdept/taskdept/internal/constants"
	apierrors "github.com/taskdept/taskdept/internal/errors"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/policy"
)

// Criteria holds the raw filter inputs as received from the caller. Every
// field is optional; an empty string means "no constraint".
type Criteria struct {
	Status         string
	DepartmentName string
	DueDateFrom    string
	DueDateTo      string
	FreeText       string
	Page           int
	PageSize       int
}

// Spec is the compiled, composed query passed to the repository. The
// visibility scope is AND-combined with the explicit criteria and can never
// be widened by filter input.
type Spec struct {
	AssignedTo     *uint64
	Status         *models.TaskStatus
	DepartmentName *string
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	Search         string
	Limit          int
	Offset         int
}

// Compile validates the criteria and combines them with the visibility
// scope. A malformed date or unknown status aborts compilation with a
// validation error naming the offending field; partial filters are never
// applied. DueDateFrom after DueDateTo is legal and simply matches nothing.
func Compile(criteria Criteria, scope policy.Scope) (Spec, error) {
	spec := Spec{AssignedTo: scope.AssignedTo}

	if criteria.Status != "" {
		status := models.TaskStatus(criteria.Status)
		if !status.Valid() {
			return Spec{}, apierrors.Validation("status", "unknown task status")
		}
		spec.Status = &status
	}

	if dept := strings.TrimSpace(criteria.DepartmentName); dept != "" {
		spec.DepartmentName = &dept
	}

	if criteria.DueDateFrom != "" {
		from, err := time.Parse(constants.DateFormat, criteria.DueDateFrom)
		if err != nil {
			return Spec{}, apierrors.Validation("due_date_from", "invalid date, expected YYYY-MM-DD")
		}
		spec.DueDateFrom = &from
	}

	if criteria.DueDateTo != "" {
		to, err := time.Parse(constants.DateFormat, criteria.DueDateTo)
		if err != nil {
			return Spec{}, apierrors.Validation("due_date_to", "invalid date, expected YYYY-MM-DD")
		}
		spec.DueDateTo = &to
	}

	if search := strings.TrimSpace(criteria.FreeText); search != "" {
		spec.Search = strings.ToLower(search)
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		spec.Limit = criteria.PageSize
		spec.Offset = (criteria.Page - 1) * criteria.PageSize
	}

	return spec, nil
}
