// Package policy is the access-control core: a pure mapping from
// (role, operation, ownership) to an allow/deny decision, plus the
// role-derived visibility scope applied to every task listing. It holds no
// state and touches no storage, so a single instance is safe to share.
package policy

// Role is the closed role enumeration. The numeric values match the seeded
// roles table; raw integers are converted at the boundary via RoleFromID and
// never switched on elsewhere.
type Role uint8

const (
	RoleAdmin       Role = 1
	RoleManager     Role = 2
	RoleProjectLead Role = 3
	RoleEmployee    Role = 4
)

// RoleFromID converts a stored role id into a Role, reporting whether the id
// is one of the known roles.
func RoleFromID(id uint8) (Role, bool) {
	switch Role(id) {
	case RoleAdmin, RoleManager, RoleProjectLead, RoleEmployee:
		return Role(id), true
	default:
		return 0, false
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	case RoleProjectLead:
		return "Project Lead"
	case RoleEmployee:
		return "Employee"
	default:
		return "Unknown"
	}
}

// Manages reports whether the role has full task management rights
// (create, full edit, delete, list all).
func (r Role) Manages() bool {
	return r == RoleAdmin || r == RoleManager
}

// Operation identifies an action subject to authorization.
type Operation int

const (
	OpCreateTask Operation = iota
	OpEditTaskFull
	OpEditTaskStatusOnly
	OpDeleteTask
	OpListAllTasks
	OpRegisterEmployee
)

func (op Operation) String() string {
	switch op {
	case OpCreateTask:
		return "CreateTask"
	case OpEditTaskFull:
		return "EditTaskFull"
	case OpEditTaskStatusOnly:
		return "EditTaskStatusOnly"
	case OpDeleteTask:
		return "DeleteTask"
	case OpListAllTasks:
		return "ListAllTasks"
	case OpRegisterEmployee:
		return "RegisterEmployee"
	default:
		return "Unknown"
	}
}

// Denial reasons. Every Deny is surfaced to the caller; none is a no-op.
const (
	ReasonRoleNotPermitted = "RoleNotPermitted"
	ReasonNotOwner         = "NotOwner"
)

// Decision is the result of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize decides whether principal, holding role, may perform op.
// assignedTo is the task's assignee and is only consulted for the
// status-only edit path; pass 0 for operations without a target task.
func Authorize(role Role, op Operation, principal, assignedTo uint64) Decision {
	switch op {
	case OpCreateTask, OpEditTaskFull, OpDeleteTask, OpListAllTasks:
		if role.Manages() {
			return allow
		}
		return deny(ReasonRoleNotPermitted)

	case OpEditTaskStatusOnly:
		// Admin/Manager go through the full-edit path instead.
		if role.Manages() {
			return allow
		}
		if role == RoleProjectLead || role == RoleEmployee {
			if assignedTo == principal {
				return allow
			}
			return deny(ReasonNotOwner)
		}
		return deny(ReasonRoleNotPermitted)

	case OpRegisterEmployee:
		if role == RoleAdmin {
			return allow
		}
		return deny(ReasonRoleNotPermitted)

	default:
		return deny(ReasonRoleNotPermitted)
	}
}

// Scope restricts which task rows a principal may see. A nil AssignedTo
// means no restriction.
type Scope struct {
	AssignedTo *uint64
}

// Visible returns the visibility scope for a principal: Admin and Manager
// see everything, Project Lead and Employee see only their own tasks.
func Visible(role Role, principal uint64) Scope {
	if role.Manages() {
		return Scope{}
	}
	p := principal
	return Scope{AssignedTo: &p}
}
