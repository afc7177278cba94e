package services

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
)

// ApprovalRuleReaderSvc defines read operations for approval rules
type ApprovalRuleReaderSvc interface {
	// FindActiveRule returns the company's active rule, or nil when there is none.
	FindActiveRule(ctx context.Context, companyID string) (*domain.ApprovalRule, error)

	// GetActiveRule returns the active rule of the admin's company or apperrors.ErrNotFound.
	GetActiveRule(ctx context.Context, adminID string) (*domain.ApprovalRule, error)
}

// ApprovalRuleWriterSvc defines write operations for approval rules
type ApprovalRuleWriterSvc interface {
	// CreateRule validates and stores a new active rule for the admin's company.
	CreateRule(ctx context.Context, adminID string, req dto.CreateApprovalRuleRequest) (*domain.ApprovalRule, error)

	// DeactivateRule deactivates one of the admin's company rules.
	DeactivateRule(ctx context.Context, adminID, ruleID string) error
}

// ApprovalRuleSvcFacade combines all approval-rule service interfaces
type ApprovalRuleSvcFacade interface {
	ApprovalRuleReaderSvc
	ApprovalRuleWriterSvc
}
