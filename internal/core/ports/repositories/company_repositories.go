package repositories

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// CompanyReader defines read operations for companies
type CompanyReader interface {
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for companies
type CompanyWriter interface {
	// SaveCompanyWithAdmin creates a company together with its first admin user in one transaction.
	SaveCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.User) error

	// UpdateCompany updates name, country and default currency.
	UpdateCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
