package mapping

import (
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		Country:         d.Country,
		DefaultCurrency: d.DefaultCurrency,
		AdminID:         d.AdminID,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		Country:         m.Country,
		DefaultCurrency: m.DefaultCurrency,
		AdminID:         m.AdminID,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
