package dto

import "github.com/SscSPs/expense_management_app/internal/core/domain"

// UpdateCompanyRequest defines the company fields an admin may change.
type UpdateCompanyRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1"`
	Country         *string `json:"country" binding:"omitempty,min=2"`
	DefaultCurrency *string `json:"defaultCurrency" binding:"omitempty,iso4217"`
}

// BootstrapCompanyRequest describes a new company and its first admin.
type BootstrapCompanyRequest struct {
	CompanyName     string
	Country         string
	DefaultCurrency string
	AdminName       string
	AdminEmail      string
	AdminPassword   string
}

// CompanyResponse is the public view of a company.
type CompanyResponse struct {
	CompanyID       string  `json:"companyID"`
	Name            string  `json:"name"`
	Country         string  `json:"country"`
	DefaultCurrency string  `json:"defaultCurrency"`
	AdminID         *string `json:"adminID,omitempty"`
	IsActive        bool    `json:"isActive"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		Country:         c.Country,
		DefaultCurrency: c.DefaultCurrency,
		AdminID:         c.AdminID,
		IsActive:        c.IsActive,
	}
}
