package services

import (
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:         NewUserService(repos.UserRepo),
		Company:      NewCompanyService(repos.CompanyRepo, repos.UserRepo, cfg.DefaultCurrency),
		ApprovalRule: NewApprovalRuleService(repos.ApprovalRuleRepo, repos.UserRepo),
		Expense: NewExpenseService(
			repos.ExpenseRepo,
			repos.UserRepo,
			repos.CompanyRepo,
			repos.ApprovalRuleRepo,
			WithDefaultCurrency(cfg.DefaultCurrency),
		),
		Approval:  NewApprovalService(repos.ExpenseRepo, repos.UserRepo),
		Reporting: NewReportingService(repos.ExpenseRepo, repos.UserRepo),
	}
}
