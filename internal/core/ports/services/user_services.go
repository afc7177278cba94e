package services

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers lists the admin's company users, filtered by role and status.
	ListUsers(ctx context.Context, adminID string, params dto.ListUsersParams) ([]domain.User, error)

	// ListActiveUsers lists the active users of the admin's company for approver pickers.
	ListActiveUsers(ctx context.Context, adminID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser adds a user to the admin's company.
	CreateUser(ctx context.Context, adminID string, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser updates an existing user of the admin's company.
	UpdateUser(ctx context.Context, adminID, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// ToggleUserStatus flips a user's active flag.
	ToggleUserStatus(ctx context.Context, adminID, userID string) (*domain.User, error)

	// ResetUserPassword sets a new password, generating a temporary one when none is given.
	ResetUserPassword(ctx context.Context, adminID, userID string, req dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser marks a user as deleted (soft delete).
	DeleteUser(ctx context.Context, adminID, userID string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
}
