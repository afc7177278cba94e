package pgsql

import (
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		ApprovalRuleRepo: newPgxApprovalRuleRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
	}
}
