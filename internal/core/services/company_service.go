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
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/utils"
	"github.com/google/uuid"
)

// bootstrapActor is recorded as creator of rows made by the bootstrap command.
const bootstrapActor = "bootstrap"

type companyService struct {
	BaseService
	companyRepo     portsrepo.CompanyRepositoryFacade
	defaultCurrency string
}

// NewCompanyService creates the company settings service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, userRepo portsrepo.UserReader, defaultCurrency string) portssvc.CompanySvcFacade {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &companyService{
		BaseService:     BaseService{Users: userRepo},
		companyRepo:     companyRepo,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) GetCompany(ctx context.Context, actorID string) (*domain.Company, error) {
	actor, err := s.LoadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.findCompany(ctx, actor.CompanyID)
}

func (s *companyService) UpdateCompany(ctx context.Context, adminID string, req dto.UpdateCompanyRequest) (*domain.Company, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	company, err := s.findCompany(ctx, admin.CompanyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("name must not be empty")
		}
		company.Name = name
	}
	if req.Country != nil {
		company.Country = strings.TrimSpace(*req.Country)
	}
	if req.DefaultCurrency != nil {
		company.DefaultCurrency = strings.ToUpper(strings.TrimSpace(*req.DefaultCurrency))
	}
	company.Touch(adminID, time.Now())

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", company.CompanyID))
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	s.LogInfo(ctx, "Company updated", slog.String("company_id", company.CompanyID))
	return company, nil
}

func (s *companyService) Bootstrap(ctx context.Context, req dto.BootstrapCompanyRequest) (*domain.Company, *domain.User, error) {
	companyName := strings.TrimSpace(req.CompanyName)
	adminName := strings.TrimSpace(req.AdminName)
	email := normalizeEmail(req.AdminEmail)
	switch {
	case companyName == "":
		return nil, nil, apperrors.NewValidationFailedError("company name is required")
	case adminName == "":
		return nil, nil, apperrors.NewValidationFailedError("admin name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, nil, apperrors.NewValidationFailedError("a valid admin email is required")
	case len(req.AdminPassword) < 8:
		return nil, nil, apperrors.NewValidationFailedError("admin password must be at least 8 characters")
	}

	if _, err := s.Users.FindUserByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewAppError(http.StatusConflict, "a user with this email already exists", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up admin email")
		return nil, nil, fmt.Errorf("failed to look up admin email: %w", err)
	}

	hash, err := utils.HashPassword(req.AdminPassword)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.DefaultCurrency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	now := time.Now()
	adminID := uuid.NewString()
	company := domain.Company{
		CompanyID:       uuid.NewString(),
		Name:            companyName,
		Country:         strings.TrimSpace(req.Country),
		DefaultCurrency: currency,
		AdminID:         &adminID,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(bootstrapActor, now),
	}
	admin := domain.User{
		UserID:       adminID,
		Name:         adminName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CompanyID:    company.CompanyID,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(bootstrapActor, now),
	}

	if err := s.companyRepo.SaveCompanyWithAdmin(ctx, company, admin); err != nil {
		s.LogError(ctx, err, "Failed to bootstrap company", slog.String("company_name", companyName))
		return nil, nil, fmt.Errorf("failed to bootstrap company: %w", err)
	}

	s.LogInfo(ctx, "Company bootstrapped",
		slog.String("company_id", company.CompanyID),
		slog.String("admin_id", admin.UserID))
	return &company, &admin, nil
}

func (s *companyService) findCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("company not found")
		}
		s.LogError(ctx, err, "Failed to load company", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return company, nil
}
