package mapping

import (
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/models"
)

// ToModelApprovalRule converts a domain ApprovalRule to a model ApprovalRule
func ToModelApprovalRule(d domain.ApprovalRule) models.ApprovalRule {
	steps := make([]models.ApprovalStep, len(d.ApprovalSteps))
	for i, s := range d.ApprovalSteps {
		steps[i] = models.ApprovalStep{StepOrder: s.StepOrder, ApproverUser: s.ApproverUser}
	}
	specific := d.SpecificApprovers
	if specific == nil {
		specific = []string{}
	}
	return models.ApprovalRule{
		RuleID:                    d.RuleID,
		CompanyID:                 d.CompanyID,
		Name:                      d.Name,
		ApprovalSteps:             steps,
		RuleType:                  string(d.RuleType),
		IsManagerApproverRequired: d.IsManagerApproverRequired,
		DefaultManagerID:          d.DefaultManagerID,
		IsSequential:              d.IsSequential,
		Percentage:                d.Percentage,
		SpecificApprovers:         specific,
		IsActive:                  d.IsActive,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApprovalRule converts a model ApprovalRule to a domain ApprovalRule
func ToDomainApprovalRule(m models.ApprovalRule) domain.ApprovalRule {
	steps := make([]domain.ApprovalStep, len(m.ApprovalSteps))
	for i, s := range m.ApprovalSteps {
		steps[i] = domain.ApprovalStep{StepOrder: s.StepOrder, ApproverUser: s.ApproverUser}
	}
	return domain.ApprovalRule{
		RuleID:                    m.RuleID,
		CompanyID:                 m.CompanyID,
		Name:                      m.Name,
		ApprovalSteps:             steps,
		RuleType:                  domain.RuleType(m.RuleType),
		IsManagerApproverRequired: m.IsManagerApproverRequired,
		DefaultManagerID:          m.DefaultManagerID,
		IsSequential:              m.IsSequential,
		Percentage:                m.Percentage,
		SpecificApprovers:         m.SpecificApprovers,
		IsActive:                  m.IsActive,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}
