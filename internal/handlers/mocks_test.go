package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// generateTestToken creates a dummy JWT for testing.
func generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ema-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

// --- Mock Expense Service ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) GetExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, actorID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) ListMyExpenses(ctx context.Context, actorID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpensesResponse), args.Error(1)
}

func (m *MockExpenseService) ListCompanyExpenses(ctx context.Context, actorID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpensesResponse), args.Error(1)
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, actorID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) SubmitExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, actorID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

// --- Mock Approval Service ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) Decide(ctx context.Context, actorID, expenseID string, req dto.DecisionRequest) (*domain.Expense, error) {
	args := m.Called(ctx, actorID, expenseID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockApprovalService) ListPendingApprovals(ctx context.Context, actorID string) ([]domain.Expense, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockApprovalService) ApprovalStats(ctx context.Context, actorID string) (*domain.ApprovalStats, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalStats), args.Error(1)
}

func (m *MockApprovalService) Override(ctx context.Context, adminID, expenseID, remarks string) (*domain.Expense, error) {
	args := m.Called(ctx, adminID, expenseID, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockApprovalService) BulkOverride(ctx context.Context, adminID string, req dto.BulkOverrideRequest) (*dto.BulkOverrideResponse, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BulkOverrideResponse), args.Error(1)
}

func (m *MockApprovalService) AdminReject(ctx context.Context, adminID, expenseID, remarks string) (*domain.Expense, error) {
	args := m.Called(ctx, adminID, expenseID, remarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Mock Reporting Service ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) ExpenseStatistics(ctx context.Context, adminID string) (*domain.ExpenseStatistics, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseStatistics), args.Error(1)
}

func (m *MockReportingService) ExportExpenses(ctx context.Context, adminID string, params dto.ListExpensesParams) ([]byte, error) {
	args := m.Called(ctx, adminID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

// --- Mock Approval Rule Service ---
type MockApprovalRuleService struct {
	mock.Mock
}

func (m *MockApprovalRuleService) FindActiveRule(ctx context.Context, companyID string) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRule), args.Error(1)
}

func (m *MockApprovalRuleService) GetActiveRule(ctx context.Context, adminID string) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRule), args.Error(1)
}

func (m *MockApprovalRuleService) CreateRule(ctx context.Context, adminID string, req dto.CreateApprovalRuleRequest) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRule), args.Error(1)
}

func (m *MockApprovalRuleService) DeactivateRule(ctx context.Context, adminID, ruleID string) error {
	args := m.Called(ctx, adminID, ruleID)
	return args.Error(0)
}

var _ portssvc.ApprovalRuleSvcFacade = (*MockApprovalRuleService)(nil)

// --- Mock User Service ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, adminID string, params dto.ListUsersParams) ([]domain.User, error) {
	args := m.Called(ctx, adminID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) ListActiveUsers(ctx context.Context, adminID string) ([]domain.User, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, adminID string, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, adminID, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, adminID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ToggleUserStatus(ctx context.Context, adminID, userID string) (*domain.User, error) {
	args := m.Called(ctx, adminID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ResetUserPassword(ctx context.Context, adminID, userID string, req dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	args := m.Called(ctx, adminID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ResetPasswordResponse), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, adminID, userID string) error {
	args := m.Called(ctx, adminID, userID)
	return args.Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock Company Service ---
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) GetCompany(ctx context.Context, actorID string) (*domain.Company, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) UpdateCompany(ctx context.Context, adminID string, req dto.UpdateCompanyRequest) (*domain.Company, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) Bootstrap(ctx context.Context, req dto.BootstrapCompanyRequest) (*domain.Company, *domain.User, error) {
	args := m.Called(ctx, req)
	var company *domain.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*domain.Company)
	}
	var user *domain.User
	if args.Get(1) != nil {
		user = args.Get(1).(*domain.User)
	}
	return company, user, args.Error(2)
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)
