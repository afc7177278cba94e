package domain

// RuleType tags how an approval rule decides completion. It is derived from
// the admin's input, never chosen directly.
type RuleType string

const (
	RuleTypePercentage       RuleType = "Percentage"
	RuleTypeSpecificApprover RuleType = "SpecificApprover"
	RuleTypeHybrid           RuleType = "Hybrid"
)

// ApprovalStep is one position in a rule's ordered approver sequence.
type ApprovalStep struct {
	StepOrder    int    `json:"stepOrder"`
	ApproverUser string `json:"approverUser"`
}

// ApprovalRule is a company-level configuration describing who must approve
// an expense and in what order. Only one rule per company is active.
type ApprovalRule struct {
	RuleID                    string         `json:"ruleID"`
	CompanyID                 string         `json:"companyID"`
	Name                      string         `json:"name"`
	ApprovalSteps             []ApprovalStep `json:"approvalSteps"`
	RuleType                  RuleType       `json:"ruleType"`
	IsManagerApproverRequired bool           `json:"isManagerApproverRequired"`
	DefaultManagerID          *string        `json:"defaultManagerID,omitempty"`
	IsSequential              bool           `json:"isSequential"`
	Percentage                *int           `json:"percentage,omitempty"`
	SpecificApprovers         []string       `json:"specificApprovers"`
	IsActive                  bool           `json:"isActive"`
	AuditFields
}

// DeriveRuleType picks the rule type from which optional fields are populated.
func DeriveRuleType(percentage *int, requiredApprovers []string) RuleType {
	switch {
	case percentage != nil && len(requiredApprovers) > 0:
		return RuleTypeHybrid
	case len(requiredApprovers) > 0:
		return RuleTypeSpecificApprover
	default:
		return RuleTypePercentage
	}
}

// IsSpecificApprover reports whether userID is in the rule's required set.
func (r ApprovalRule) IsSpecificApprover(userID string) bool {
	for _, id := range r.SpecificApprovers {
		if id == userID {
			return true
		}
	}
	return false
}
