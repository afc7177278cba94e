package services

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
)

// ReportingSvc defines admin reporting over a company's expenses.
type ReportingSvc interface {
	// ExpenseStatistics returns counts and sums per status for the admin's company.
	ExpenseStatistics(ctx context.Context, adminID string) (*domain.ExpenseStatistics, error)

	// ExportExpenses renders the company's expenses matching params as an XLSX workbook.
	ExportExpenses(ctx context.Context, adminID string, params dto.ListExpensesParams) ([]byte, error)
}
