package services_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/core/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.ReportingSvc
	ctx             context.Context
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewReportingService(suite.mockExpenseRepo, suite.mockUserRepo)
	suite.ctx = context.Background()
}

func (suite *ReportingServiceTestSuite) expectAdmin() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "admin").Return(activeUser("admin", "c1", domain.RoleAdmin), nil).Once()
}

func (suite *ReportingServiceTestSuite) TestExpenseStatistics() {
	stats := &domain.ExpenseStatistics{CompanyID: "c1", TotalCount: 4, TotalSum: decimal.NewFromInt(400)}
	suite.expectAdmin()
	suite.mockExpenseRepo.On("ExpenseStatistics", suite.ctx, "c1").Return(stats, nil).Once()

	got, err := suite.service.ExpenseStatistics(suite.ctx, "admin")

	suite.Require().NoError(err)
	suite.Equal(stats, got)
}

func (suite *ReportingServiceTestSuite) TestExpenseStatistics_RequiresAdmin() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "emp").Return(activeUser("emp", "c1", domain.RoleEmployee), nil).Once()

	_, err := suite.service.ExpenseStatistics(suite.ctx, "emp")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ReportingServiceTestSuite) TestExportExpenses_Workbook() {
	expense := inProgressExpense("c1", "emp", "mgr")
	expense.Amount = decimal.RequireFromString("42.5")
	expense.Category = "Travel"

	suite.expectAdmin()
	suite.mockExpenseRepo.On("FindExpenses", suite.ctx, mock.MatchedBy(func(f domain.ExpenseFilter) bool {
		return f.CompanyID == "c1" && f.Limit == pagination.MaxLimit && f.After == nil &&
			f.Status != nil && *f.Status == domain.StatusInProgress
	})).Return([]domain.Expense{*expense}, nil).Once()

	data, err := suite.service.ExportExpenses(suite.ctx, "admin", dto.ListExpensesParams{Status: "submitted"})
	suite.Require().NoError(err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	suite.Require().NoError(err)
	defer f.Close()

	rows, err := f.GetRows("Expenses")
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("Expense ID", rows[0][0])
	suite.Equal("exp-1", rows[1][0])
	suite.Equal("Travel", rows[1][4])
	suite.Equal("42.5", rows[1][6])
	suite.Equal("InProgress", rows[1][9])
	suite.Equal("mgr", rows[1][10])
}

func (suite *ReportingServiceTestSuite) TestExportExpenses_FollowsPages() {
	full := make([]domain.Expense, pagination.MaxLimit)
	for i := range full {
		full[i] = *inProgressExpense("c1", "emp", "mgr")
	}
	full[len(full)-1].ExpenseID = "last-of-page"

	suite.expectAdmin()
	suite.mockExpenseRepo.On("FindExpenses", suite.ctx, mock.MatchedBy(func(f domain.ExpenseFilter) bool { return f.After == nil })).
		Return(full, nil).Once()
	suite.mockExpenseRepo.On("FindExpenses", suite.ctx, mock.MatchedBy(func(f domain.ExpenseFilter) bool {
		return f.After != nil && f.After.ExpenseID == "last-of-page"
	})).Return([]domain.Expense{*inProgressExpense("c1", "emp", "mgr")}, nil).Once()

	data, err := suite.service.ExportExpenses(suite.ctx, "admin", dto.ListExpensesParams{})
	suite.Require().NoError(err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows("Expenses")
	suite.Require().NoError(err)
	suite.Len(rows, pagination.MaxLimit+2)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
