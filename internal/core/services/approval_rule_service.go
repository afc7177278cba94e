package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/google/uuid"
)

// approvalRuleService implements the ApprovalRuleSvcFacade interface
type approvalRuleService struct {
	BaseService
	ruleRepo portsrepo.ApprovalRuleRepositoryFacade
}

// NewApprovalRuleService creates the rule store service.
func NewApprovalRuleService(ruleRepo portsrepo.ApprovalRuleRepositoryFacade, userRepo portsrepo.UserReader) portssvc.ApprovalRuleSvcFacade {
	return &approvalRuleService{
		BaseService: BaseService{Users: userRepo},
		ruleRepo:    ruleRepo,
	}
}

var _ portssvc.ApprovalRuleSvcFacade = (*approvalRuleService)(nil)

func (s *approvalRuleService) FindActiveRule(ctx context.Context, companyID string) (*domain.ApprovalRule, error) {
	rule, err := s.ruleRepo.FindActiveRuleByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to find active approval rule", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to find active approval rule: %w", err)
	}
	return rule, nil
}

func (s *approvalRuleService) GetActiveRule(ctx context.Context, adminID string) (*domain.ApprovalRule, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	rule, err := s.FindActiveRule(ctx, admin.CompanyID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, apperrors.NewNotFoundError("no active approval rule")
	}
	return rule, nil
}

func (s *approvalRuleService) CreateRule(ctx context.Context, adminID string, req dto.CreateApprovalRuleRequest) (*domain.ApprovalRule, error) {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Description)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("description is required")
	}
	if len(req.Approvers) == 0 && !req.IsManagerApprover {
		return nil, apperrors.NewValidationFailedError("at least one approver or the manager approval flag is required")
	}
	if p := req.MinApprovalPercent; p != nil && (*p < 0 || *p > 100) {
		return nil, apperrors.NewValidationFailedError("minApprovalPercent must be between 0 and 100")
	}

	var (
		steps    = make([]domain.ApprovalStep, 0, len(req.Approvers))
		required = make([]string, 0)
		ids      = make([]string, 0, len(req.Approvers)+1)
		seen     = make(map[string]bool, len(req.Approvers))
	)
	for i, a := range req.Approvers {
		userID := strings.TrimSpace(a.User)
		if userID == "" {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("approver %d has no user", i+1))
		}
		if seen[userID] {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("approver %s is listed twice", userID))
		}
		seen[userID] = true
		steps = append(steps, domain.ApprovalStep{StepOrder: i, ApproverUser: userID})
		if a.Required {
			required = append(required, userID)
		}
		ids = append(ids, userID)
	}

	var defaultManager *string
	if req.Manager != nil && strings.TrimSpace(*req.Manager) != "" {
		m := strings.TrimSpace(*req.Manager)
		defaultManager = &m
		ids = append(ids, m)
	}

	if err := s.ensureActiveMembers(ctx, admin.CompanyID, ids); err != nil {
		return nil, err
	}

	var percentage *int
	if req.MinApprovalPercent != nil && *req.MinApprovalPercent > 0 {
		p := *req.MinApprovalPercent
		percentage = &p
	}

	now := time.Now()
	rule := domain.ApprovalRule{
		RuleID:                    uuid.NewString(),
		CompanyID:                 admin.CompanyID,
		Name:                      name,
		ApprovalSteps:             steps,
		RuleType:                  domain.DeriveRuleType(percentage, required),
		IsManagerApproverRequired: req.IsManagerApprover,
		DefaultManagerID:          defaultManager,
		IsSequential:              req.Sequence,
		Percentage:                percentage,
		SpecificApprovers:         required,
		IsActive:                  true,
		AuditFields:               domain.NewAuditFields(adminID, now),
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save approval rule", slog.String("company_id", admin.CompanyID))
		return nil, fmt.Errorf("failed to save approval rule: %w", err)
	}

	s.LogInfo(ctx, "Approval rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("rule_type", string(rule.RuleType)),
		slog.Int("steps", len(rule.ApprovalSteps)))
	return &rule, nil
}

func (s *approvalRuleService) DeactivateRule(ctx context.Context, adminID, ruleID string) error {
	admin, err := s.RequireAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("approval rule %s not found", ruleID))
		}
		s.LogError(ctx, err, "Failed to load approval rule", slog.String("rule_id", ruleID))
		return fmt.Errorf("failed to load approval rule: %w", err)
	}
	if rule.CompanyID != admin.CompanyID {
		return apperrors.NewNotFoundError(fmt.Sprintf("approval rule %s not found", ruleID))
	}
	if !rule.IsActive {
		return apperrors.NewConflictError("approval rule is already inactive")
	}

	if err := s.ruleRepo.DeactivateRule(ctx, ruleID, time.Now(), adminID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate approval rule", slog.String("rule_id", ruleID))
		return fmt.Errorf("failed to deactivate approval rule: %w", err)
	}
	s.LogInfo(ctx, "Approval rule deactivated", slog.String("rule_id", ruleID))
	return nil
}

// ensureActiveMembers checks that every id is an active user of companyID.
func (s *approvalRuleService) ensureActiveMembers(ctx context.Context, companyID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.Users.FindUsersByIDs(ctx, companyID, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load rule approvers", slog.String("company_id", companyID))
		return fmt.Errorf("failed to load approvers: %w", err)
	}
	for _, id := range ids {
		u, ok := users[id]
		if !ok || !u.IsActive {
			return apperrors.NewValidationFailedError(fmt.Sprintf("user %s is not an active member of this company", id))
		}
	}
	return nil
}
