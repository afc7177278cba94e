package handlers_test

import (
	"bytes"
	"encoding/json"
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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type ManagerHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockApprovalService *MockApprovalService
	mockExpenseService  *MockExpenseService
	managerID           string
}

func (suite *ManagerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.managerID = uuid.NewString()

	suite.mockApprovalService = new(MockApprovalService)
	suite.mockExpenseService = new(MockExpenseService)

	rate := limiter.Rate{Period: time.Minute, Limit: 2}
	decisionLimiter := middleware.RateLimit(limiter.New(memory.NewStore(), rate))

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	handlers.RegisterManagerRoutes(v1, suite.mockApprovalService, suite.mockExpenseService, decisionLimiter, nil)
}

func (suite *ManagerHandlerTestSuite) decide(expenseID string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/manager/approve-expense/"+expenseID, bytes.NewReader([]byte(body)))
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.managerID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ManagerHandlerTestSuite) get(url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.managerID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ManagerHandlerTestSuite) TestDecide_Approve() {
	expense := sampleExpense(uuid.NewString(), domain.StatusApproved)
	expense.CurrentApproverID = nil

	suite.mockApprovalService.On("Decide",
		mock.AnythingOfType("*context.valueCtx"),
		suite.managerID,
		expense.ExpenseID,
		dto.DecisionRequest{Action: "approve", Remarks: "ok"},
	).Return(expense, nil).Once()

	w := suite.decide(expense.ExpenseID, `{"action":"approve","remarks":"ok"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Approved", resp.ApprovalStatus)
	suite.Nil(resp.CurrentApproverID)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ManagerHandlerTestSuite) TestDecide_InvalidAction() {
	w := suite.decide(uuid.NewString(), `{"action":"maybe"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockApprovalService.AssertNotCalled(suite.T(), "Decide")
}

func (suite *ManagerHandlerTestSuite) TestDecide_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not current approver", apperrors.NewForbiddenError("you are not the current approver of this expense"), http.StatusForbidden},
		{"not in progress", apperrors.NewConflictError("expense is not awaiting approval"), http.StatusConflict},
		{"stale version", apperrors.NewConflictError("expense was modified by someone else, re-fetch and retry"), http.StatusConflict},
		{"not found", apperrors.NewNotFoundError("expense not found"), http.StatusNotFound},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			expenseID := uuid.NewString()
			suite.mockApprovalService.On("Decide", mock.Anything, suite.managerID, expenseID, mock.Anything).Return(nil, tt.err).Once()

			w := suite.decide(expenseID, `{"action":"reject","remarks":"no receipt"}`)

			suite.Equal(tt.code, w.Code)
			suite.Contains(w.Body.String(), apperrors.Message(tt.err))
		})
	}
}

func (suite *ManagerHandlerTestSuite) TestDecide_RateLimited() {
	expense := sampleExpense(uuid.NewString(), domain.StatusRejected)
	expense.CurrentApproverID = nil
	suite.mockApprovalService.On("Decide", mock.Anything, suite.managerID, mock.Anything, mock.Anything).Return(expense, nil).Twice()

	suite.Equal(http.StatusOK, suite.decide(expense.ExpenseID, `{"action":"reject"}`).Code)
	suite.Equal(http.StatusOK, suite.decide(expense.ExpenseID, `{"action":"reject"}`).Code)
	suite.Equal(http.StatusTooManyRequests, suite.decide(expense.ExpenseID, `{"action":"reject"}`).Code)
}

func (suite *ManagerHandlerTestSuite) TestListPendingApprovals() {
	pending := []domain.Expense{*sampleExpense(uuid.NewString(), domain.StatusInProgress)}
	suite.mockApprovalService.On("ListPendingApprovals", mock.AnythingOfType("*context.valueCtx"), suite.managerID).Return(pending, nil).Once()

	w := suite.get("/api/v1/manager/pending-approvals")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Expenses, 1)
	suite.Equal(pending[0].ExpenseID, resp.Expenses[0].ExpenseID)
}

func (suite *ManagerHandlerTestSuite) TestApprovalStats() {
	stats := &domain.ApprovalStats{PendingForMe: 2, Approved: 3, Rejected: 1, Pending: 4, Processed: 4}
	suite.mockApprovalService.On("ApprovalStats", mock.Anything, suite.managerID).Return(stats, nil).Once()

	w := suite.get("/api/v1/manager/approval-stats")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"pendingForMe":2,"approved":3,"rejected":1,"pending":4,"processed":4}`, w.Body.String())
}

func (suite *ManagerHandlerTestSuite) TestCompanyExpenses_ForbiddenForEmployees() {
	suite.mockExpenseService.On("ListCompanyExpenses", mock.Anything, suite.managerID, mock.Anything).
		Return(nil, apperrors.NewForbiddenError("managers and admins only")).Once()

	w := suite.get("/api/v1/manager/expenses")

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ManagerHandlerTestSuite) TestExpenseDetails() {
	expense := sampleExpense(uuid.NewString(), domain.StatusInProgress)
	suite.mockExpenseService.On("GetExpense", mock.Anything, suite.managerID, expense.ExpenseID).Return(expense, nil).Once()

	w := suite.get("/api/v1/manager/expense-details/" + expense.ExpenseID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockExpenseService.AssertExpectations(suite.T())
}

func TestManagerHandler(t *testing.T) {
	suite.Run(t, new(ManagerHandlerTestSuite))
}
