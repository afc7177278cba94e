package repositories

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// ExpenseReader defines read operations for expenses
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense together with its history.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindExpenses lists expenses matching filter, newest first.
	FindExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error)

	// FindPendingForApprover lists in-progress expenses whose current approver is approverID, newest first.
	FindPendingForApprover(ctx context.Context, approverID string) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	// SaveExpense inserts a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// ApplyStateChange performs the conditional workflow update described by
	// change. It returns apperrors.ErrConflict when no row matched.
	ApplyStateChange(ctx context.Context, change domain.StateChange) error
}

// ExpenseStatsReader defines aggregate queries over expenses
type ExpenseStatsReader interface {
	// ExpenseStatistics aggregates counts and sums per status for a company.
	ExpenseStatistics(ctx context.Context, companyID string) (*domain.ExpenseStatistics, error)

	// CountPendingForApprover counts in-progress expenses waiting on approverID.
	CountPendingForApprover(ctx context.Context, approverID string) (int, error)
}

// ExpenseRepositoryFacade combines all expense repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	ExpenseStatsReader
}
