package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_management_app/internal/core/workflow"
)

// mapWorkflowError translates resolver errors into application errors.
func mapWorkflowError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrInvalidTransition):
		return apperrors.NewAppError(http.StatusConflict, "expense is not in a state that allows this action", fmt.Errorf("%w: %w", apperrors.ErrConflict, err))
	case errors.Is(err, workflow.ErrNotCurrentApprover):
		return apperrors.NewForbiddenError("you are not the current approver of this expense")
	case errors.Is(err, workflow.ErrUnroutable):
		return apperrors.NewAppError(http.StatusBadRequest, "no approver is available for this expense", fmt.Errorf("%w: %w", apperrors.ErrValidation, err))
	default:
		return err
	}
}

// stateChangeFor builds the conditional write moving expense to outcome.
func stateChangeFor(expense *domain.Expense, outcome workflow.Outcome, actorID string) domain.StateChange {
	plan := outcome.Plan
	return domain.StateChange{
		ExpenseID:         expense.ExpenseID,
		ExpectedStatus:    expense.ApprovalStatus,
		ExpectedVersion:   expense.Version,
		Status:            outcome.Status,
		CurrentApproverID: outcome.CurrentApprover,
		Plan:              &plan,
		UpdatedBy:         actorID,
	}
}

// applyStateChange mirrors a persisted StateChange onto the loaded expense.
func applyStateChange(expense *domain.Expense, change domain.StateChange) {
	expense.ApprovalStatus = change.Status
	expense.CurrentApproverID = change.CurrentApproverID
	if change.ApprovalRuleID != nil {
		expense.ApprovalRuleID = change.ApprovalRuleID
	}
	if change.Plan != nil {
		expense.Plan = change.Plan
	}
	if change.Remarks != nil {
		expense.Remarks = *change.Remarks
	}
	expense.Overridden = expense.Overridden || change.Overridden
	if change.History != nil {
		expense.History = append(expense.History, *change.History)
	}
	expense.Touch(change.UpdatedBy, change.UpdatedAt)
	expense.Version++
}

// loadExpense fetches an expense, turning a missing row into a client-facing NotFound.
func loadExpense(ctx context.Context, base *BaseService, repo portsrepo.ExpenseReader, expenseID string) (*domain.Expense, error) {
	expense, err := repo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense %s not found", expenseID))
		}
		base.LogError(ctx, err, "Failed to load expense", slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to load expense %s: %w", expenseID, err)
	}
	return expense, nil
}

// persistStateChange applies change and logs a lost race.
func persistStateChange(ctx context.Context, base *BaseService, repo portsrepo.ExpenseWriter, change domain.StateChange) error {
	if err := repo.ApplyStateChange(ctx, change); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			base.LogInfo(ctx, "Expense changed concurrently",
				slog.String("expense_id", change.ExpenseID),
				slog.Int("expected_version", change.ExpectedVersion))
			return apperrors.NewAppError(http.StatusConflict, "expense was modified by someone else, re-fetch and retry", err)
		}
		base.LogError(ctx, err, "Failed to persist expense state change", slog.String("expense_id", change.ExpenseID))
		return fmt.Errorf("failed to update expense %s: %w", change.ExpenseID, err)
	}
	return nil
}
