package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/handlers"
	"github.com/SscSPs/expense_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EmployeeHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockExpenseService *MockExpenseService
	userID             string
}

func (suite *EmployeeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.userID = uuid.NewString()

	suite.mockExpenseService = new(MockExpenseService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	handlers.RegisterEmployeeRoutes(v1, suite.mockExpenseService)
}

func (suite *EmployeeHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleExpense(employeeID string, status domain.ApprovalStatus) *domain.Expense {
	exp := &domain.Expense{
		ExpenseID:      uuid.NewString(),
		CompanyID:      uuid.NewString(),
		EmployeeID:     employeeID,
		PaidBy:         "Emp",
		Amount:         decimal.RequireFromString("120.50"),
		Currency:       "USD",
		Category:       "Travel",
		Description:    "Taxi",
		Date:           time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ApprovalStatus: status,
		AuditFields:    domain.NewAuditFields(employeeID, time.Now()),
	}
	if status == domain.StatusInProgress {
		approver := uuid.NewString()
		exp.CurrentApproverID = &approver
		exp.Plan = &domain.ApprovalPlan{
			RuleType: domain.RuleTypePercentage,
			Steps:    []domain.PlanStep{{StepOrder: 0, ApproverID: approver, Source: domain.SourceFallback}},
		}
	}
	return exp
}

func (suite *EmployeeHandlerTestSuite) TestCreateExpense_Success() {
	created := sampleExpense(suite.userID, domain.StatusInProgress)

	suite.mockExpenseService.On("CreateExpense",
		mock.AnythingOfType("*context.valueCtx"),
		suite.userID,
		mock.MatchedBy(func(req dto.CreateExpenseRequest) bool {
			return req.Amount.Equal(decimal.RequireFromString("120.50")) && req.Description == "Taxi" && req.ShouldSubmit()
		}),
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/employee/create-expense", map[string]any{
		"amount":      "120.50",
		"currency":    "USD",
		"category":    "Travel",
		"description": "Taxi",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.ExpenseID, resp.ExpenseID)
	suite.Equal("InProgress", resp.ApprovalStatus)
	suite.Equal(created.CurrentApproverID, resp.CurrentApproverID)
	suite.Len(resp.Steps, 1)
	suite.mockExpenseService.AssertExpectations(suite.T())
}

func (suite *EmployeeHandlerTestSuite) TestCreateExpense_InvalidAmount() {
	for _, amount := range []any{"-5", "0", nil} {
		body := map[string]any{"description": "Taxi"}
		if amount != nil {
			body["amount"] = amount
		}
		w := suite.do(http.MethodPost, "/api/v1/employee/create-expense", body)
		suite.Equal(http.StatusBadRequest, w.Code, "amount %v", amount)
	}
	suite.mockExpenseService.AssertNotCalled(suite.T(), "CreateExpense")
}

func (suite *EmployeeHandlerTestSuite) TestCreateExpense_MissingDescription() {
	w := suite.do(http.MethodPost, "/api/v1/employee/create-expense", map[string]any{"amount": "10"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockExpenseService.AssertNotCalled(suite.T(), "CreateExpense")
}

func (suite *EmployeeHandlerTestSuite) TestCreateExpense_Unroutable() {
	suite.mockExpenseService.On("CreateExpense", mock.Anything, suite.userID, mock.Anything).
		Return(nil, apperrors.NewValidationFailedError("no approver available for this expense")).Once()

	w := suite.do(http.MethodPost, "/api/v1/employee/create-expense", map[string]any{"amount": 10, "description": "Lunch"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "no approver available")
}

func (suite *EmployeeHandlerTestSuite) TestCreateExpense_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/employee/create-expense", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *EmployeeHandlerTestSuite) TestSubmitExpense_Conflict() {
	expenseID := uuid.NewString()
	suite.mockExpenseService.On("SubmitExpense", mock.AnythingOfType("*context.valueCtx"), suite.userID, expenseID).
		Return(nil, apperrors.NewConflictError("only drafts can be submitted")).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/employee/expenses/%s/submit", expenseID), nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.JSONEq(`{"error":"only drafts can be submitted"}`, w.Body.String())
}

func (suite *EmployeeHandlerTestSuite) TestListMyExpenses_PassesFilters() {
	token := "abc"
	suite.mockExpenseService.On("ListMyExpenses",
		mock.AnythingOfType("*context.valueCtx"),
		suite.userID,
		mock.MatchedBy(func(p dto.ListExpensesParams) bool {
			return p.Status == "submitted" && p.Limit == 5 && p.From != nil && p.From.Day() == 2 && p.NextToken != nil && *p.NextToken == token
		}),
	).Return(&dto.ListExpensesResponse{Expenses: []dto.ExpenseResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/employee/expenses?status=submitted&limit=5&from=2025-01-02&nextToken="+token, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockExpenseService.AssertExpectations(suite.T())
}

func (suite *EmployeeHandlerTestSuite) TestListMyExpenses_BadLimit() {
	w := suite.do(http.MethodGet, "/api/v1/employee/expenses?limit=1000", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EmployeeHandlerTestSuite) TestGetExpense_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", apperrors.NewNotFoundError("expense not found"), http.StatusNotFound},
		{"forbidden", apperrors.NewForbiddenError("not allowed to view this expense"), http.StatusForbidden},
		{"internal", fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			expenseID := uuid.NewString()
			suite.mockExpenseService.On("GetExpense", mock.Anything, suite.userID, expenseID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/employee/expenses/"+expenseID, nil)
			suite.Equal(tt.code, w.Code)
		})
	}
}

func TestEmployeeHandler(t *testing.T) {
	suite.Run(t, new(EmployeeHandlerTestSuite))
}
