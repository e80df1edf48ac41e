package constants

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "task_session"

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the gin context.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length for new employees.
const MinPasswordLength = 8

// DateFormat is the calendar date format accepted by filter and task inputs.
const DateFormat = "2006-01-02"

// Pagination bounds for list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TopAssigneeLimit is the number of assignees included in the dashboard
// assignment breakdown.
const TopAssigneeLimit = 5
