package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/utils/pagination"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Expenses"

// maxExportRows bounds a single workbook.
const maxExportRows = 10000

var exportHeaders = []string{
	"Expense ID", "Date", "Employee", "Paid By", "Category", "Description",
	"Amount", "Currency", "Converted Amount", "Status", "Current Approver", "Overridden", "Remarks",
}

type reportingService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

// NewReportingService creates the admin reporting service.
func NewReportingService(expenseRepo portsrepo.ExpenseRepositoryFacade, userRepo portsrepo.UserReader) portssvc.ReportingSvc {
	return &reportingService{
		BaseService: BaseService{Users: userRepo},
		expenseRepo: expenseRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func (s *reportingService) ExpenseStatistics(ctx context.Context, adminID string) (*domain.ExpenseStatistics, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	stats, err := s.expenseRepo.ExpenseStatistics(ctx, admin.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute expense statistics", slog.String("company_id", admin.CompanyID))
		return nil, fmt.Errorf("failed to compute expense statistics: %w", err)
	}
	return stats, nil
}

func (s *reportingService) ExportExpenses(ctx context.Context, adminID string, params dto.ListExpensesParams) ([]byte, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	filter, err := buildExpenseFilter(admin.CompanyID, params)
	if err != nil {
		return nil, err
	}

	expenses, err := s.collect(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, e := range expenses {
		if err := writeExpenseRow(f, i+2, e); err != nil {
			s.LogError(ctx, err, "Failed to write export row", slog.String("expense_id", e.ExpenseID))
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.LogError(ctx, err, "Failed to render workbook")
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.LogInfo(ctx, "Expenses exported",
		slog.String("company_id", admin.CompanyID),
		slog.Int("rows", len(expenses)))
	return buf.Bytes(), nil
}

// collect walks keyset pages until the filter is exhausted or maxExportRows is reached.
func (s *reportingService) collect(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	filter.Limit = pagination.MaxLimit
	var all []domain.Expense
	for len(all) < maxExportRows {
		page, err := s.expenseRepo.FindExpenses(ctx, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to load expenses for export", slog.String("company_id", filter.CompanyID))
			return nil, fmt.Errorf("failed to load expenses for export: %w", err)
		}
		all = append(all, page...)
		if len(page) < filter.Limit {
			break
		}
		last := page[len(page)-1]
		filter.After = &domain.ExpenseCursor{CreatedAt: last.CreatedAt, ExpenseID: last.ExpenseID}
	}
	if len(all) > maxExportRows {
		all = all[:maxExportRows]
	}
	return all, nil
}

func writeExpenseRow(f *excelize.File, row int, e domain.Expense) error {
	approver := ""
	if e.CurrentApproverID != nil {
		approver = *e.CurrentApproverID
	}
	converted := ""
	if e.ConvertedAmount != nil {
		converted = e.ConvertedAmount.String()
	}
	values := []any{
		e.ExpenseID,
		e.Date.Format("2006-01-02"),
		e.EmployeeID,
		e.PaidBy,
		e.Category,
		e.Description,
		e.Amount.String(),
		e.Currency,
		converted,
		string(e.ApprovalStatus),
		approver,
		e.Overridden,
		e.Remarks,
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
