package mapping

import (
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:            d.UserID,
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Role:              models.UserRole(d.Role),
		CompanyID:         d.CompanyID,
		ManagerID:         d.ManagerID,
		IsManagerApprover: d.IsManagerApprover,
		Department:        d.Department,
		Phone:             d.Phone,
		Location:          d.Location,
		JobTitle:          d.JobTitle,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
		DeletedAt:         d.DeletedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:            m.UserID,
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              domain.UserRole(m.Role),
		CompanyID:         m.CompanyID,
		ManagerID:         m.ManagerID,
		IsManagerApprover: m.IsManagerApprover,
		Department:        m.Department,
		Phone:             m.Phone,
		Location:          m.Location,
		JobTitle:          m.JobTitle,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		DeletedAt:         m.DeletedAt,
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	return mapSlice(ms, ToDomainUser)
}
