package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/core/workflow"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// statusAliases maps the query values the UI sends to workflow statuses.
var statusAliases = map[string]domain.ApprovalStatus{
	"draft":      domain.StatusDraft,
	"submitted":  domain.StatusInProgress,
	"pending":    domain.StatusInProgress,
	"inprogress": domain.StatusInProgress,
	"approved":   domain.StatusApproved,
	"rejected":   domain.StatusRejected,
}

// expenseService implements the ExpenseSvcFacade interface
type expenseService struct {
	BaseService
	expenseRepo     portsrepo.ExpenseRepositoryFacade
	companyRepo     portsrepo.CompanyReader
	ruleRepo        portsrepo.ApprovalRuleReader
	defaultCurrency string
	now             func() time.Time
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithDefaultCurrency sets the currency used when neither the claim nor the company names one.
func WithDefaultCurrency(code string) ExpenseServiceOption {
	return func(s *expenseService) {
		if code != "" {
			s.defaultCurrency = strings.ToUpper(code)
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ExpenseServiceOption {
	return func(s *expenseService) {
		s.now = now
	}
}

// NewExpenseService creates a new expense service with the provided options
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	userRepo portsrepo.UserReader,
	companyRepo portsrepo.CompanyReader,
	ruleRepo portsrepo.ApprovalRuleReader,
	options ...ExpenseServiceOption,
) portssvc.ExpenseSvcFacade {
	svc := &expenseService{
		BaseService:     BaseService{Users: userRepo},
		expenseRepo:     expenseRepo,
		companyRepo:     companyRepo,
		ruleRepo:        ruleRepo,
		defaultCurrency: "USD",
		now:             time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, actorID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.NewValidationFailedError("description is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be greater than zero")
	}
	if req.ConvertedAmount != nil && !req.ConvertedAmount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("convertedAmount must be greater than zero")
	}

	company, err := s.loadCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := domain.Expense{
		ExpenseID:       uuid.NewString(),
		CompanyID:       actor.CompanyID,
		EmployeeID:      actor.UserID,
		PaidBy:          actor.UserID,
		Amount:          req.Amount,
		Currency:        s.currencyFor(req.Currency, company),
		ConvertedAmount: req.ConvertedAmount,
		Category:        strings.TrimSpace(req.Category),
		Description:     description,
		Date:            now,
		ApprovalStatus:  domain.StatusDraft,
		History:         []domain.HistoryEntry{},
		AuditFields:     domain.NewAuditFields(actorID, now),
	}
	if req.PaidBy != nil && strings.TrimSpace(*req.PaidBy) != "" {
		expense.PaidBy = strings.TrimSpace(*req.PaidBy)
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	if req.ShouldSubmit() {
		outcome, err := s.route(ctx, &expense, *actor, *company)
		if err != nil {
			return nil, err
		}
		expense.ApprovalStatus = outcome.Status
		expense.CurrentApproverID = outcome.CurrentApprover
		expense.Plan = &outcome.Plan
		expense.ApprovalRuleID = outcome.Plan.RuleID
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("status", string(expense.ApprovalStatus)))
	return &expense, nil
}

func (s *expenseService) SubmitExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	expense, err := loadExpense(ctx, &s.BaseService, s.expenseRepo, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.EmployeeID != actor.UserID {
		return nil, apperrors.NewForbiddenError("only the owner can submit an expense")
	}
	if expense.ApprovalStatus != domain.StatusDraft {
		return nil, apperrors.NewConflictError(fmt.Sprintf("expense is %s, only drafts can be submitted", expense.ApprovalStatus))
	}

	company, err := s.loadCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	outcome, err := s.route(ctx, expense, *actor, *company)
	if err != nil {
		return nil, err
	}

	change := stateChangeFor(expense, outcome, actorID)
	change.ApprovalRuleID = outcome.Plan.RuleID
	change.UpdatedAt = s.now()

	if err := persistStateChange(ctx, &s.BaseService, s.expenseRepo, change); err != nil {
		return nil, err
	}
	applyStateChange(expense, change)

	s.LogInfo(ctx, "Expense submitted", slog.String("expense_id", expenseID))
	return expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	expense, err := loadExpense(ctx, &s.BaseService, s.expenseRepo, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsVisibleTo(*actor) {
		return nil, apperrors.NewForbiddenError("you are not allowed to view this expense")
	}
	return expense, nil
}

func (s *expenseService) ListMyExpenses(ctx context.Context, actorID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	filter, err := buildExpenseFilter(actor.CompanyID, params)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = &actor.UserID
	return s.listPage(ctx, filter)
}

func (s *expenseService) ListCompanyExpenses(ctx context.Context, actorID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	actor, err := s.RequireReviewer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	filter, err := buildExpenseFilter(actor.CompanyID, params)
	if err != nil {
		return nil, err
	}
	return s.listPage(ctx, filter)
}

// listPage fetches one keyset page, asking for one extra row to detect a next page.
func (s *expenseService) listPage(ctx context.Context, filter domain.ExpenseFilter) (*dto.ListExpensesResponse, error) {
	limit := filter.Limit
	filter.Limit = limit + 1

	expenses, err := s.expenseRepo.FindExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("company_id", filter.CompanyID))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	resp := &dto.ListExpensesResponse{}
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ExpenseID)
		resp.NextToken = &token
	}
	resp.Expenses = dto.ToExpenseResponses(expenses)
	return resp, nil
}

// route builds the approval plan for expense and moves it out of Draft.
func (s *expenseService) route(ctx context.Context, expense *domain.Expense, submitter domain.User, company domain.Company) (workflow.Outcome, error) {
	rule, err := s.ruleRepo.FindActiveRuleByCompany(ctx, company.CompanyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load active approval rule", slog.String("company_id", company.CompanyID))
			return workflow.Outcome{}, fmt.Errorf("failed to load approval rule: %w", err)
		}
		rule = nil
	}

	eligible, err := s.activeApprovers(ctx, rule, submitter, company)
	if err != nil {
		return workflow.Outcome{}, err
	}

	plan, err := workflow.BuildPlan(rule, submitter, company, eligible)
	if err != nil {
		s.LogInfo(ctx, "Expense could not be routed",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("company_id", company.CompanyID))
		return workflow.Outcome{}, mapWorkflowError(err)
	}

	outcome, err := workflow.Submit(expense.ApprovalStatus, plan)
	if err != nil {
		return workflow.Outcome{}, mapWorkflowError(err)
	}

	s.LogDebug(ctx, "Expense routed",
		slog.String("expense_id", expense.ExpenseID),
		slog.Int("steps", len(plan.Steps)),
		slog.String("rule_type", string(plan.RuleType)))
	return outcome, nil
}

// activeApprovers looks up every user the route could name and accepts only
// the active ones.
func (s *expenseService) activeApprovers(ctx context.Context, rule *domain.ApprovalRule, submitter domain.User, company domain.Company) (workflow.Eligible, error) {
	var ids []string
	seen := map[string]bool{}
	collect := func(id *string) {
		if id != nil && *id != "" && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	if rule != nil {
		if rule.IsManagerApproverRequired {
			collect(submitter.ManagerID)
			collect(rule.DefaultManagerID)
		}
		for _, step := range rule.ApprovalSteps {
			approver := step.ApproverUser
			collect(&approver)
		}
	}
	collect(company.AdminID)
	if len(ids) == 0 {
		return func(string) bool { return false }, nil
	}

	users, err := s.Users.FindUsersByIDs(ctx, company.CompanyID, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load route candidates", slog.String("company_id", company.CompanyID))
		return nil, fmt.Errorf("failed to load approvers: %w", err)
	}
	return func(userID string) bool {
		u, ok := users[userID]
		return ok && u.IsActive && u.DeletedAt == nil
	}, nil
}

func (s *expenseService) loadCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load company", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to load company %s: %w", companyID, err)
	}
	return company, nil
}

func (s *expenseService) currencyFor(requested string, company *domain.Company) string {
	if c := strings.TrimSpace(requested); c != "" {
		return strings.ToUpper(c)
	}
	if company.DefaultCurrency != "" {
		return company.DefaultCurrency
	}
	return s.defaultCurrency
}

// buildExpenseFilter turns listing params into a repository filter.
func buildExpenseFilter(companyID string, params dto.ListExpensesParams) (domain.ExpenseFilter, error) {
	filter := domain.ExpenseFilter{
		CompanyID: companyID,
		From:      params.From,
		To:        params.To,
		Limit:     pagination.NormalizeLimit(params.Limit),
	}

	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, ok := statusAliases[strings.ToLower(raw)]
		if !ok {
			return domain.ExpenseFilter{}, apperrors.NewValidationFailedError(fmt.Sprintf("unknown status %q", raw))
		}
		filter.Status = &status
	}
	if category := strings.TrimSpace(params.Category); category != "" {
		filter.Category = &category
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return domain.ExpenseFilter{}, apperrors.NewValidationFailedError("to must not be before from")
	}
	if params.NextToken != nil && *params.NextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return domain.ExpenseFilter{}, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %w", apperrors.ErrValidation, err))
		}
		filter.After = &domain.ExpenseCursor{CreatedAt: createdAt, ExpenseID: id}
	}
	return filter, nil
}
