package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, companyID string, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, companyID, userIDs)
	var users map[string]domain.User
	if args.Get(0) != nil {
		users = args.Get(0).(map[string]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, companyID string, filter domain.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, companyID, filter)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	var company *domain.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*domain.Company)
	}
	return company, args.Error(1)
}

func (m *MockCompanyRepository) SaveCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.User) error {
	args := m.Called(ctx, company, admin)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

// --- Mock ApprovalRuleRepository ---
type MockApprovalRuleRepository struct {
	mock.Mock
}

func (m *MockApprovalRuleRepository) FindActiveRuleByCompany(ctx context.Context, companyID string) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID)
	var rule *domain.ApprovalRule
	if args.Get(0) != nil {
		rule = args.Get(0).(*domain.ApprovalRule)
	}
	return rule, args.Error(1)
}

func (m *MockApprovalRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, ruleID)
	var rule *domain.ApprovalRule
	if args.Get(0) != nil {
		rule = args.Get(0).(*domain.ApprovalRule)
	}
	return rule, args.Error(1)
}

func (m *MockApprovalRuleRepository) SaveRule(ctx context.Context, rule domain.ApprovalRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockApprovalRuleRepository) DeactivateRule(ctx context.Context, ruleID string, deactivatedAt time.Time, deactivatedBy string) error {
	args := m.Called(ctx, ruleID, deactivatedAt, deactivatedBy)
	return args.Error(0)
}

var _ portsrepo.ApprovalRuleRepositoryFacade = (*MockApprovalRuleRepository)(nil)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) FindExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) FindPendingForApprover(ctx context.Context, approverID string) ([]domain.Expense, error) {
	args := m.Called(ctx, approverID)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) ApplyStateChange(ctx context.Context, change domain.StateChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockExpenseRepository) ExpenseStatistics(ctx context.Context, companyID string) (*domain.ExpenseStatistics, error) {
	args := m.Called(ctx, companyID)
	var stats *domain.ExpenseStatistics
	if args.Get(0) != nil {
		stats = args.Get(0).(*domain.ExpenseStatistics)
	}
	return stats, args.Error(1)
}

func (m *MockExpenseRepository) CountPendingForApprover(ctx context.Context, approverID string) (int, error) {
	args := m.Called(ctx, approverID)
	return args.Int(0), args.Error(1)
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

// --- fixtures ---

func activeUser(id, companyID string, role domain.UserRole) *domain.User {
	return &domain.User{
		UserID:      id,
		Name:        "User " + id,
		Email:       id + "@example.com",
		Role:        role,
		CompanyID:   companyID,
		IsActive:    true,
		AuditFields: domain.NewAuditFields("seed", time.Now()),
	}
}

// inProgressExpense returns an expense waiting on the first approver of a
// sequential, full-route plan.
func inProgressExpense(companyID, employeeID string, approvers ...string) *domain.Expense {
	steps := make([]domain.PlanStep, len(approvers))
	for i, a := range approvers {
		steps[i] = domain.PlanStep{StepOrder: i, ApproverID: a, Source: domain.SourceRule}
	}
	current := approvers[0]
	audit := domain.NewAuditFields(employeeID, time.Now().Add(-time.Hour))
	audit.Version = 3
	return &domain.Expense{
		ExpenseID:         "exp-1",
		CompanyID:         companyID,
		EmployeeID:        employeeID,
		Description:       "Flight",
		Currency:          "USD",
		ApprovalStatus:    domain.StatusInProgress,
		CurrentApproverID: &current,
		Plan:              &domain.ApprovalPlan{RuleType: domain.RuleTypePercentage, Steps: steps},
		AuditFields:       audit,
	}
}
