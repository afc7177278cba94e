package dto

import (
	"time"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// RuleApprover is one approver picked in the rule form.
type RuleApprover struct {
	User     string `json:"user" binding:"required"`
	Required bool   `json:"required"`
}

// CreateApprovalRuleRequest is the admin's approval rule form.
type CreateApprovalRuleRequest struct {
	Description        string         `json:"description" binding:"required"`
	Manager            *string        `json:"manager"`
	IsManagerApprover  bool           `json:"isManagerApprover"`
	Approvers          []RuleApprover `json:"approvers" binding:"omitempty,dive"`
	Sequence           bool           `json:"sequence"`
	MinApprovalPercent *int           `json:"minApprovalPercent" binding:"omitempty,min=0,max=100"`
}

// ApprovalStepResponse is one ordered step of a rule.
type ApprovalStepResponse struct {
	StepOrder    int    `json:"stepOrder"`
	ApproverUser string `json:"approverUser"`
}

// ApprovalRuleResponse is the public view of an approval rule.
type ApprovalRuleResponse struct {
	RuleID                    string                 `json:"ruleID"`
	CompanyID                 string                 `json:"companyID"`
	Name                      string                 `json:"name"`
	ApprovalSteps             []ApprovalStepResponse `json:"approvalSteps"`
	RuleType                  string                 `json:"ruleType"`
	IsManagerApproverRequired bool                   `json:"isManagerApproverRequired"`
	DefaultManagerID          *string                `json:"defaultManagerID,omitempty"`
	IsSequential              bool                   `json:"isSequential"`
	Percentage                *int                   `json:"percentage,omitempty"`
	SpecificApprovers         []string               `json:"specificApprover"`
	IsActive                  bool                   `json:"isActive"`
	CreatedAt                 time.Time              `json:"createdAt"`
	CreatedBy                 string                 `json:"createdBy"`
}

// ToApprovalRuleResponse converts a domain.ApprovalRule to ApprovalRuleResponse DTO
func ToApprovalRuleResponse(r *domain.ApprovalRule) ApprovalRuleResponse {
	steps := make([]ApprovalStepResponse, len(r.ApprovalSteps))
	for i, s := range r.ApprovalSteps {
		steps[i] = ApprovalStepResponse{StepOrder: s.StepOrder, ApproverUser: s.ApproverUser}
	}
	specific := r.SpecificApprovers
	if specific == nil {
		specific = []string{}
	}
	return ApprovalRuleResponse{
		RuleID:                    r.RuleID,
		CompanyID:                 r.CompanyID,
		Name:                      r.Name,
		ApprovalSteps:             steps,
		RuleType:                  string(r.RuleType),
		IsManagerApproverRequired: r.IsManagerApproverRequired,
		DefaultManagerID:          r.DefaultManagerID,
		IsSequential:              r.IsSequential,
		Percentage:                r.Percentage,
		SpecificApprovers:         specific,
		IsActive:                  r.IsActive,
		CreatedAt:                 r.CreatedAt,
		CreatedBy:                 r.CreatedBy,
	}
}
