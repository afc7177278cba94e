package services

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpense returns an expense visible to the actor.
	GetExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error)

	// ListMyExpenses lists the actor's own expenses.
	ListMyExpenses(ctx context.Context, actorID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)

	// ListCompanyExpenses lists every expense of the actor's company. Admins and managers only.
	ListCompanyExpenses(ctx context.Context, actorID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	// CreateExpense records a new claim, routing it for approval unless it is kept as a draft.
	CreateExpense(ctx context.Context, actorID string, req dto.CreateExpenseRequest) (*domain.Expense, error)

	// SubmitExpense routes a draft owned by the actor.
	SubmitExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error)
}

// ExpenseSvcFacade combines all expense service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
