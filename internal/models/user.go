package models

import "time"

// UserRole mirrors the users.role column.
type UserRole string

// User is the users table row.
type User struct {
	UserID            string   `json:"userID" db:"user_id"`
	Name              string   `json:"name" db:"name"`
	Email             string   `json:"email" db:"email"`
	PasswordHash      string   `json:"-" db:"password_hash"`
	Role              UserRole `json:"role" db:"role"`
	CompanyID         string   `json:"companyID" db:"company_id"`
	ManagerID         *string  `json:"managerID" db:"manager_id"`
	IsManagerApprover bool     `json:"isManagerApprover" db:"is_manager_approver"`
	Department        string   `json:"department" db:"department"`
	Phone             string   `json:"phone" db:"phone"`
	Location          string   `json:"location" db:"location"`
	JobTitle          string   `json:"jobTitle" db:"job_title"`
	IsActive          bool     `json:"isActive" db:"is_active"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
