package models

// ApprovalStep is stored inside approval_rules.approval_steps (JSONB).
type ApprovalStep struct {
	StepOrder    int    `json:"stepOrder"`
	ApproverUser string `json:"approverUser"`
}

// ApprovalRule is the approval_rules table row.
type ApprovalRule struct {
	RuleID                    string         `json:"ruleID" db:"rule_id"`
	CompanyID                 string         `json:"companyID" db:"company_id"`
	Name                      string         `json:"name" db:"name"`
	ApprovalSteps             []ApprovalStep `json:"approvalSteps" db:"approval_steps"`
	RuleType                  string         `json:"ruleType" db:"rule_type"`
	IsManagerApproverRequired bool           `json:"isManagerApproverRequired" db:"is_manager_approver_required"`
	DefaultManagerID          *string        `json:"defaultManagerID" db:"default_manager_id"`
	IsSequential              bool           `json:"isSequential" db:"is_sequential"`
	Percentage                *int           `json:"percentage" db:"percentage"`
	SpecificApprovers         []string       `json:"specificApprovers" db:"specific_approvers"`
	IsActive                  bool           `json:"isActive" db:"is_active"`
	AuditFields
}
