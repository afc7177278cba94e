package domain

import "time"

// UserRole defines the role a user has inside their company.
type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleManager  UserRole = "Manager"
	RoleEmployee UserRole = "Employee"
)

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User represents a user of the application in the domain.
type User struct {
	UserID            string   `json:"userID"` // Primary Key (UUID)
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	PasswordHash      string   `json:"-"`
	Role              UserRole `json:"role"`
	CompanyID         string   `json:"companyID"`
	ManagerID         *string  `json:"managerID,omitempty"`
	IsManagerApprover bool     `json:"isManagerApprover"`
	Department        string   `json:"department,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Location          string   `json:"location,omitempty"`
	JobTitle          string   `json:"jobTitle,omitempty"`
	IsActive          bool     `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// IsAdmin reports whether the user is an active company admin.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin && u.IsActive
}

// CanReviewCompany reports whether the user may browse every expense of their company.
func (u User) CanReviewCompany() bool {
	return u.IsActive && (u.Role == RoleAdmin || u.Role == RoleManager)
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role     *UserRole
	IsActive *bool
	Limit    int
	Offset   int
}
