package models

import (
	"time"
)

// User is an account that can authenticate and be assigned tasks. Users are
// never deleted in this system; role and department re-assignment are the
// only mutations after registration.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Email        string    `gorm:"type:varchar(255);not null" json:"email"`
	DepartmentID *uint64   `json:"department_id"`
	RoleID       uint8     `gorm:"not null" json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
