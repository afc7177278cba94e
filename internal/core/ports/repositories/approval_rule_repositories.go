package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// ApprovalRuleReader defines read operations for approval rules
type ApprovalRuleReader interface {
	// FindActiveRuleByCompany returns the company's active rule or apperrors.ErrNotFound.
	FindActiveRuleByCompany(ctx context.Context, companyID string) (*domain.ApprovalRule, error)

	// FindRuleByID retrieves a rule regardless of its active flag.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error)
}

// ApprovalRuleWriter defines write operations for approval rules
type ApprovalRuleWriter interface {
	// SaveRule persists a new active rule and deactivates the company's previous
	// active rule in the same transaction.
	SaveRule(ctx context.Context, rule domain.ApprovalRule) error

	// DeactivateRule clears the active flag of an active rule.
	DeactivateRule(ctx context.Context, ruleID string, deactivatedAt time.Time, deactivatedBy string) error
}

// ApprovalRuleRepositoryFacade combines all approval-rule repository interfaces
type ApprovalRuleRepositoryFacade interface {
	ApprovalRuleReader
	ApprovalRuleWriter
}
