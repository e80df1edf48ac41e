package models

// Role is a read-only reference row. The four rows are seeded at migration
// time and never change; business logic works with the policy.Role enum
// rather than these records.
type Role struct {
	ID   uint8  `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`
}
