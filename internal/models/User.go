package models

import "gorm.io/gorm"

const (
	RoleViewer     = "viewer"
	RoleDispatcher = "dispatcher"
	RoleAdmin      = "admin"
)

// User is an operator account. Role is one of the Role constants;
// dispatchers and admins may change the schedule.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"size:16;not null"`
}
