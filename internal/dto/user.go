package dto

import (
	"time"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// CreateUserRequest defines the data an admin supplies to add a user to their company.
type CreateUserRequest struct {
	Name              string  `json:"name" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	Password          string  `json:"password" binding:"required,min=8"`
	Role              string  `json:"role" binding:"required,oneof=Admin Manager Employee"`
	ManagerID         *string `json:"managerId"`
	IsManagerApprover bool    `json:"isManagerApprover"`
	Department        string  `json:"department"`
	Phone             string  `json:"phone"`
	Location          string  `json:"location"`
	JobTitle          string  `json:"jobTitle"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name              *string `json:"name" binding:"omitempty,min=1"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Role              *string `json:"role" binding:"omitempty,oneof=Admin Manager Employee"`
	ManagerID         *string `json:"managerId"`
	IsManagerApprover *bool   `json:"isManagerApprover"`
	Department        *string `json:"department"`
	Phone             *string `json:"phone"`
	Location          *string `json:"location"`
	JobTitle          *string `json:"jobTitle"`
}

// ResetPasswordRequest optionally carries the new password. When empty a
// temporary password is generated.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"omitempty,min=8"`
}

// ResetPasswordResponse returns the generated temporary password, if any.
type ResetPasswordResponse struct {
	UserID            string `json:"userID"`
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Role   string `form:"role" binding:"omitempty,oneof=Admin Manager Employee"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UserID            string    `json:"userID"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	CompanyID         string    `json:"companyID"`
	ManagerID         *string   `json:"managerId,omitempty"`
	IsManagerApprover bool      `json:"isManagerApprover"`
	Department        string    `json:"department,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Location          string    `json:"location,omitempty"`
	JobTitle          string    `json:"jobTitle,omitempty"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UserDropdownItem is the compact user shape used by approver pickers.
type UserDropdownItem struct {
	UserID string `json:"_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:            u.UserID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              string(u.Role),
		CompanyID:         u.CompanyID,
		ManagerID:         u.ManagerID,
		IsManagerApprover: u.IsManagerApprover,
		Department:        u.Department,
		Phone:             u.Phone,
		Location:          u.Location,
		JobTitle:          u.JobTitle,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}

// ToUserDropdown converts users to dropdown items.
func ToUserDropdown(users []domain.User) []UserDropdownItem {
	items := make([]UserDropdownItem, len(users))
	for i, u := range users {
		items[i] = UserDropdownItem{UserID: u.UserID, Name: u.Name, Role: string(u.Role)}
	}
	return items
}
