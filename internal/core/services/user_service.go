package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/utils"
	"github.com/SscSPs/expense_management_app/internal/utils/pagination"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user administration service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{
		BaseService: BaseService{Users: userRepo},
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
		}
		s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, adminID string, params dto.ListUsersParams) ([]domain.User, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	filter := domain.UserFilter{
		Limit:  pagination.NormalizeLimit(params.Limit),
		Offset: params.Offset,
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if params.Role != "" {
		role := domain.UserRole(params.Role)
		if !role.IsValid() {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown role %q", params.Role))
		}
		filter.Role = &role
	}
	switch params.Status {
	case "":
	case "active", "inactive":
		active := params.Status == "active"
		filter.IsActive = &active
	default:
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown status %q", params.Status))
	}

	users, err := s.userRepo.FindUsers(ctx, admin.CompanyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users", slog.String("company_id", admin.CompanyID))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) ListActiveUsers(ctx context.Context, adminID string) ([]domain.User, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	active := true
	// Limit 0 returns every matching user.
	users, err := s.userRepo.FindUsers(ctx, admin.CompanyID, domain.UserFilter{IsActive: &active})
	if err != nil {
		s.LogError(ctx, err, "Failed to list active users", slog.String("company_id", admin.CompanyID))
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, adminID string, req dto.CreateUserRequest) (*domain.User, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	role := domain.UserRole(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown role %q", req.Role))
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("name is required")
	}
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	newUserID := uuid.NewString()
	managerID, err := s.validManager(ctx, admin.CompanyID, newUserID, req.ManagerID)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:            newUserID,
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		CompanyID:         admin.CompanyID,
		ManagerID:         managerID,
		IsManagerApprover: req.IsManagerApprover,
		Department:        req.Department,
		Phone:             req.Phone,
		Location:          req.Location,
		JobTitle:          req.JobTitle,
		IsActive:          true,
		AuditFields:       domain.NewAuditFields(adminID, time.Now()),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(http.StatusConflict, "a user with this email already exists", err)
		}
		s.LogError(ctx, err, "Failed to create user", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, adminID, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	user, err := s.companyUser(ctx, admin, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("name must not be empty")
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.UserID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		if !role.IsValid() {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown role %q", *req.Role))
		}
		if user.UserID == admin.UserID && role != domain.RoleAdmin {
			return nil, apperrors.NewValidationFailedError("you cannot remove your own admin role")
		}
		user.Role = role
	}
	if req.ManagerID != nil {
		managerID, err := s.validManager(ctx, admin.CompanyID, user.UserID, req.ManagerID)
		if err != nil {
			return nil, err
		}
		user.ManagerID = managerID
	}
	if req.IsManagerApprover != nil {
		user.IsManagerApprover = *req.IsManagerApprover
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}

	return s.save(ctx, user, adminID, "User updated")
}

func (s *userService) ToggleUserStatus(ctx context.Context, adminID, userID string) (*domain.User, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if userID == admin.UserID {
		return nil, apperrors.NewValidationFailedError("you cannot deactivate yourself")
	}
	user, err := s.companyUser(ctx, admin, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	return s.save(ctx, user, adminID, "User status toggled")
}

func (s *userService) ResetUserPassword(ctx context.Context, adminID, userID string, req dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	user, err := s.companyUser(ctx, admin, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResetPasswordResponse{UserID: user.UserID}
	password := req.NewPassword
	if password == "" {
		password, err = utils.GenerateTemporaryPassword()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate temporary password")
			return nil, fmt.Errorf("failed to generate temporary password: %w", err)
		}
		resp.TemporaryPassword = password
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if _, err := s.save(ctx, user, adminID, "User password reset"); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, adminID, userID string) error {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if userID == admin.UserID {
		return apperrors.NewValidationFailedError("you cannot delete yourself")
	}
	if _, err := s.companyUser(ctx, admin, userID); err != nil {
		return err
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), adminID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
		}
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}

// companyUser loads a user of the admin's company. Users of other companies
// and deleted users are reported as not found.
func (s *userService) companyUser(ctx context.Context, admin *domain.User, userID string) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID != admin.CompanyID || user.DeletedAt != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}
	return user, nil
}

func (s *userService) save(ctx context.Context, user *domain.User, actorID, msg string) (*domain.User, error) {
	user.Touch(actorID, time.Now())
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(http.StatusConflict, "a user with this email already exists", err)
		}
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.LogInfo(ctx, msg, slog.String("user_id", user.UserID))
	return user, nil
}

// validManager resolves the requested manager of userID. An empty id clears it.
func (s *userService) validManager(ctx context.Context, companyID, userID string, managerID *string) (*string, error) {
	if managerID == nil || strings.TrimSpace(*managerID) == "" {
		return nil, nil
	}
	id := strings.TrimSpace(*managerID)
	if id == userID {
		return nil, apperrors.NewValidationFailedError("a user cannot be their own manager")
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, companyID, []string{id})
	if err != nil {
		s.LogError(ctx, err, "Failed to load manager", slog.String("manager_id", id))
		return nil, fmt.Errorf("failed to load manager: %w", err)
	}
	manager, ok := users[id]
	if !ok || !manager.IsActive {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("manager %s is not an active member of this company", id))
	}
	return &id, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		s.LogError(ctx, err, "Failed to look up email")
		return fmt.Errorf("failed to look up email: %w", err)
	case existing.UserID != selfID:
		return apperrors.NewAppError(http.StatusConflict, "a user with this email already exists", apperrors.ErrDuplicate)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
