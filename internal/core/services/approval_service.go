package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/core/workflow"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/google/uuid"
)

const (
	decisionApprove = "approve"
	decisionReject  = "reject"
)

// approvalService implements the ApprovalSvcFacade interface
type approvalService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	now         func() time.Time
}

// NewApprovalService creates the service that applies approver and admin decisions.
func NewApprovalService(expenseRepo portsrepo.ExpenseRepositoryFacade, userRepo portsrepo.UserReader) portssvc.ApprovalSvcFacade {
	return &approvalService{
		BaseService: BaseService{Users: userRepo},
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

func (s *approvalService) Decide(ctx context.Context, actorID, expenseID string, req dto.DecisionRequest) (*domain.Expense, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	expense, err := loadExpense(ctx, &s.BaseService, s.expenseRepo, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CompanyID != actor.CompanyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense %s not found", expenseID))
	}

	if expense.ApprovalStatus != domain.StatusInProgress {
		return nil, apperrors.NewConflictError(fmt.Sprintf("expense is %s, only in-progress expenses can be decided", expense.ApprovalStatus))
	}
	if expense.CurrentApproverID == nil || *expense.CurrentApproverID != actorID {
		s.LogInfo(ctx, "Decision refused, actor is not the current approver",
			slog.String("expense_id", expenseID),
			slog.String("actor_id", actorID))
		return nil, apperrors.NewForbiddenError("you are not the current approver of this expense")
	}
	if expense.Plan == nil {
		s.LogError(ctx, apperrors.ErrConflict, "In-progress expense has no approval plan", slog.String("expense_id", expenseID))
		return nil, apperrors.NewConflictError("expense has no approval route")
	}

	var (
		outcome workflow.Outcome
		action  domain.HistoryAction
	)
	switch req.Action {
	case decisionApprove:
		outcome, err = workflow.Approve(expense.ApprovalStatus, *expense.Plan, actorID)
		action = domain.ActionApproved
	case decisionReject:
		outcome, err = workflow.Reject(expense.ApprovalStatus, *expense.Plan, actorID)
		action = domain.ActionRejected
	default:
		return nil, apperrors.NewValidationFailedError("action must be approve or reject")
	}
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	now := s.now()
	remarks := req.Remarks
	change := stateChangeFor(expense, outcome, actorID)
	change.ExpectedApproverID = &actorID
	change.Remarks = &remarks
	change.UpdatedAt = now
	change.History = &domain.HistoryEntry{
		HistoryID:  uuid.NewString(),
		ExpenseID:  expense.ExpenseID,
		ApproverID: actorID,
		Action:     action,
		Remarks:    remarks,
		DecidedAt:  now,
	}

	if err := persistStateChange(ctx, &s.BaseService, s.expenseRepo, change); err != nil {
		return nil, err
	}
	applyStateChange(expense, change)

	s.LogInfo(ctx, "Expense decision recorded",
		slog.String("expense_id", expenseID),
		slog.String("action", string(action)),
		slog.String("status", string(expense.ApprovalStatus)))
	return expense, nil
}

func (s *approvalService) ListPendingApprovals(ctx context.Context, actorID string) ([]domain.Expense, error) {
	if _, err := s.LoadActor(ctx, actorID); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindPendingForApprover(ctx, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending approvals", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return expenses, nil
}

func (s *approvalService) ApprovalStats(ctx context.Context, actorID string) (*domain.ApprovalStats, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	pending, err := s.expenseRepo.CountPendingForApprover(ctx, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count pending approvals", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to count pending approvals: %w", err)
	}

	stats, err := s.expenseRepo.ExpenseStatistics(ctx, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate company expenses", slog.String("company_id", actor.CompanyID))
		return nil, fmt.Errorf("failed to aggregate company expenses: %w", err)
	}

	result := &domain.ApprovalStats{PendingForMe: pending}
	for _, t := range stats.ByStatus {
		switch t.Status {
		case domain.StatusApproved:
			result.Approved = t.Count
		case domain.StatusRejected:
			result.Rejected = t.Count
		case domain.StatusInProgress:
			result.Pending = t.Count
		}
	}
	result.Processed = result.Approved + result.Rejected
	return result, nil
}

func (s *approvalService) Override(ctx context.Context, adminID, expenseID, remarks string) (*domain.Expense, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return s.override(ctx, admin, expenseID, remarks)
}

func (s *approvalService) override(ctx context.Context, admin *domain.User, expenseID, remarks string) (*domain.Expense, error) {
	expense, err := s.loadCompanyExpense(ctx, admin, expenseID)
	if err != nil {
		return nil, err
	}

	plan := domain.ApprovalPlan{}
	if expense.Plan != nil {
		plan = *expense.Plan
	}
	outcome, err := workflow.Override(expense.ApprovalStatus, plan)
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	now := s.now()
	change := stateChangeFor(expense, outcome, admin.UserID)
	if expense.Plan == nil {
		change.Plan = nil
	}
	change.Overridden = true
	change.UpdatedAt = now
	if remarks != "" {
		change.Remarks = &remarks
	}
	change.History = &domain.HistoryEntry{
		HistoryID:  uuid.NewString(),
		ExpenseID:  expense.ExpenseID,
		ApproverID: admin.UserID,
		Action:     domain.ActionOverridden,
		Remarks:    remarks,
		DecidedAt:  now,
	}

	if err := persistStateChange(ctx, &s.BaseService, s.expenseRepo, change); err != nil {
		return nil, err
	}
	applyStateChange(expense, change)

	s.LogInfo(ctx, "Expense overridden",
		slog.String("expense_id", expenseID),
		slog.String("admin_id", admin.UserID))
	return expense, nil
}

func (s *approvalService) BulkOverride(ctx context.Context, adminID string, req dto.BulkOverrideRequest) (*dto.BulkOverrideResponse, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if len(req.ExpenseIDs) == 0 {
		return nil, apperrors.NewValidationFailedError("expenseIds must not be empty")
	}

	resp := &dto.BulkOverrideResponse{Results: make([]dto.BulkOverrideResult, 0, len(req.ExpenseIDs))}
	for _, id := range req.ExpenseIDs {
		result := dto.BulkOverrideResult{ExpenseID: id, Success: true}
		if _, err := s.override(ctx, admin, id, req.Remarks); err != nil {
			result.Success = false
			result.Error = apperrors.Message(err)
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}

	s.LogInfo(ctx, "Bulk override finished",
		slog.Int("succeeded", resp.Succeeded),
		slog.Int("failed", resp.Failed))
	return resp, nil
}

func (s *approvalService) AdminReject(ctx context.Context, adminID, expenseID, remarks string) (*domain.Expense, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	expense, err := s.loadCompanyExpense(ctx, admin, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ApprovalStatus != domain.StatusInProgress || expense.Plan == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("expense is %s, only in-progress expenses can be rejected", expense.ApprovalStatus))
	}

	outcome, err := workflow.ForceReject(expense.ApprovalStatus, *expense.Plan)
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	now := s.now()
	change := stateChangeFor(expense, outcome, admin.UserID)
	change.UpdatedAt = now
	if remarks != "" {
		change.Remarks = &remarks
	}
	change.History = &domain.HistoryEntry{
		HistoryID:  uuid.NewString(),
		ExpenseID:  expense.ExpenseID,
		ApproverID: admin.UserID,
		Action:     domain.ActionRejected,
		Remarks:    remarks,
		DecidedAt:  now,
	}

	if err := persistStateChange(ctx, &s.BaseService, s.expenseRepo, change); err != nil {
		return nil, err
	}
	applyStateChange(expense, change)

	s.LogInfo(ctx, "Expense rejected by admin",
		slog.String("expense_id", expenseID),
		slog.String("admin_id", admin.UserID))
	return expense, nil
}

// loadCompanyExpense hides expenses of other companies behind NotFound.
func (s *approvalService) loadCompanyExpense(ctx context.Context, admin *domain.User, expenseID string) (*domain.Expense, error) {
	expense, err := loadExpense(ctx, &s.BaseService, s.expenseRepo, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CompanyID != admin.CompanyID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense %s not found", expenseID))
	}
	return expense, nil
}
