package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_management_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Users portsrepo.UserReader
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LoadActor loads the calling user. Unknown, deleted and inactive users are
// rejected with apperrors.ErrForbidden.
func (s *BaseService) LoadActor(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.Users.FindUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewForbiddenError("unknown user")
		}
		s.LogError(ctx, err, "Failed to load actor", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to load actor %s: %w", actorID, err)
	}
	if !actor.IsActive || actor.DeletedAt != nil {
		return nil, apperrors.NewForbiddenError("user is not active")
	}
	return actor, nil
}

// RequireAdmin loads the calling user and checks they are an admin.
func (s *BaseService) RequireAdmin(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		s.LogDebug(ctx, "Admin action refused", slog.String("actor_id", actorID), slog.String("role", string(actor.Role)))
		return nil, apperrors.NewForbiddenError("admin role required")
	}
	return actor, nil
}

// RequireReviewer loads the calling user and checks they may browse the whole company.
func (s *BaseService) RequireReviewer(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanReviewCompany() {
		return nil, apperrors.NewForbiddenError("admin or manager role required")
	}
	return actor, nil
}
