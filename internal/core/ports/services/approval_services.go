package services

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
)

// ApprovalDecisionSvc defines the approver's entry points.
type ApprovalDecisionSvc interface {
	// Decide applies an approve or reject from the current approver.
	Decide(ctx context.Context, actorID, expenseID string, req dto.DecisionRequest) (*domain.Expense, error)

	// ListPendingApprovals lists the in-progress expenses waiting on the actor.
	ListPendingApprovals(ctx context.Context, actorID string) ([]domain.Expense, error)

	// ApprovalStats summarises the actor's queue and their company's decisions.
	ApprovalStats(ctx context.Context, actorID string) (*domain.ApprovalStats, error)
}

// ApprovalAdminSvc defines the admin's escape hatches.
type ApprovalAdminSvc interface {
	// Override forces an expense to Approved from any status.
	Override(ctx context.Context, adminID, expenseID, remarks string) (*domain.Expense, error)

	// BulkOverride applies Override to each expense and reports per-expense results.
	BulkOverride(ctx context.Context, adminID string, req dto.BulkOverrideRequest) (*dto.BulkOverrideResponse, error)

	// AdminReject forces an in-progress expense to Rejected.
	AdminReject(ctx context.Context, adminID, expenseID, remarks string) (*domain.Expense, error)
}

// ApprovalSvcFacade combines all approval service interfaces
type ApprovalSvcFacade interface {
	ApprovalDecisionSvc
	ApprovalAdminSvc
}
