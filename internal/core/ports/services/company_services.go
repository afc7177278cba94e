package services

import (
	"context"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/dto"
)

// CompanyReaderSvc defines read operations for companies
type CompanyReaderSvc interface {
	// GetCompany returns the caller's company.
	GetCompany(ctx context.Context, actorID string) (*domain.Company, error)
}

// CompanyWriterSvc defines write operations for companies
type CompanyWriterSvc interface {
	// UpdateCompany changes the admin's company settings.
	UpdateCompany(ctx context.Context, adminID string, req dto.UpdateCompanyRequest) (*domain.Company, error)

	// Bootstrap creates a company together with its first admin.
	Bootstrap(ctx context.Context, req dto.BootstrapCompanyRequest) (*domain.Company, *domain.User, error)
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
}
