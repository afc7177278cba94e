package workflow

import (
	"fmt"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// Outcome is the next state of an expense as computed by the resolver.
// CurrentApprover is non-nil exactly when Status is InProgress.
type Outcome struct {
	Status          domain.ApprovalStatus
	CurrentApprover *string
	Plan            domain.ApprovalPlan
}

// Eligible reports whether a user may currently be handed an approval step.
// A nil Eligible accepts everyone.
type Eligible func(userID string) bool

func (e Eligible) accepts(userID *string) bool {
	if userID == nil || *userID == "" {
		return false
	}
	return e == nil || e(*userID)
}

// BuildPlan computes the unified ordered route for an expense submitted by
// submitter. The manager step, when required, is materialized as step 0 and
// followed by the rule's explicit steps. Duplicate approvers keep their first
// position, and neither the submitter nor an ineligible user is ever given a
// step. When nothing is left the route falls back to the company admin; if
// that is impossible too ErrUnroutable is returned.
func BuildPlan(rule *domain.ApprovalRule, submitter domain.User, company domain.Company, eligible Eligible) (domain.ApprovalPlan, error) {
	plan := domain.ApprovalPlan{RuleType: domain.RuleTypePercentage}

	seen := map[string]bool{submitter.UserID: true}
	add := func(approverID *string, source domain.StepSource) {
		if !eligible.accepts(approverID) || seen[*approverID] {
			return
		}
		seen[*approverID] = true
		required := rule != nil && rule.IsSpecificApprover(*approverID)
		plan.Steps = append(plan.Steps, domain.PlanStep{
			StepOrder:  len(plan.Steps),
			ApproverID: *approverID,
			Required:   required,
			Source:     source,
		})
	}

	if rule != nil {
		ruleID := rule.RuleID
		plan.RuleID = &ruleID
		plan.RuleType = rule.RuleType
		plan.Percentage = rule.Percentage

		if rule.IsManagerApproverRequired {
			manager := submitter.ManagerID
			if !eligible.accepts(manager) {
				manager = rule.DefaultManagerID
			}
			add(manager, domain.SourceManager)
		}
		for _, step := range rule.ApprovalSteps {
			approver := step.ApproverUser
			add(&approver, domain.SourceRule)
		}
	}

	if len(plan.Steps) == 0 {
		if !eligible.accepts(company.AdminID) || *company.AdminID == submitter.UserID {
			return domain.ApprovalPlan{}, fmt.Errorf("%w: company %s has no admin to review it", ErrUnroutable, company.CompanyID)
		}
		plan.RuleType = domain.RuleTypePercentage
		plan.Percentage = nil
		plan.Steps = []domain.PlanStep{{
			StepOrder:  0,
			ApproverID: *company.AdminID,
			Source:     domain.SourceFallback,
		}}
	}

	plan.CurrentStep = 0
	return plan, nil
}

// Submit moves an expense from Draft into the approval route.
func Submit(status domain.ApprovalStatus, plan domain.ApprovalPlan) (Outcome, error) {
	to, err := Fire(status, TriggerSubmit)
	if err != nil {
		return Outcome{}, err
	}
	if len(plan.Steps) == 0 {
		return Outcome{}, ErrUnroutable
	}
	next := plan.Clone()
	next.CurrentStep = 0
	approver := next.Steps[0].ApproverID
	return Outcome{Status: to, CurrentApprover: &approver, Plan: next}, nil
}

// Approve records actorID's approval of the current step and either hands the
// expense to the next approver or completes it.
func Approve(status domain.ApprovalStatus, plan domain.ApprovalPlan, actorID string) (Outcome, error) {
	if _, err := Fire(status, TriggerAdvance); err != nil {
		return Outcome{}, err
	}
	if err := assertCurrentApprover(plan, actorID); err != nil {
		return Outcome{}, err
	}

	next := plan.Clone()
	next.Steps[next.CurrentStep].Approved = true

	if next.CurrentStep == len(next.Steps)-1 || IsComplete(next) {
		to, err := Fire(status, TriggerComplete)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: to, Plan: next}, nil
	}

	next.CurrentStep++
	approver := next.Steps[next.CurrentStep].ApproverID
	return Outcome{Status: domain.StatusInProgress, CurrentApprover: &approver, Plan: next}, nil
}

// Reject finalizes the expense as Rejected regardless of its position in the route.
func Reject(status domain.ApprovalStatus, plan domain.ApprovalPlan, actorID string) (Outcome, error) {
	if _, err := Fire(status, TriggerReject); err != nil {
		return Outcome{}, err
	}
	if err := assertCurrentApprover(plan, actorID); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: domain.StatusRejected, Plan: plan.Clone()}, nil
}

// ForceReject rejects an in-progress expense without an approver check. It is
// the admin's way of stopping a claim.
func ForceReject(status domain.ApprovalStatus, plan domain.ApprovalPlan) (Outcome, error) {
	to, err := Fire(status, TriggerReject)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: to, Plan: plan.Clone()}, nil
}

// Override forces Approved from any status.
func Override(status domain.ApprovalStatus, plan domain.ApprovalPlan) (Outcome, error) {
	to, err := Fire(status, TriggerOverride)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: to, Plan: plan.Clone()}, nil
}

// IsComplete reports whether the approvals recorded in plan already satisfy
// its completion threshold. Reaching the end of the route is handled by the
// caller.
//
//   - Percentage without a percentage: never early, the full route runs.
//   - Percentage p: approved*100 >= p*total.
//   - SpecificApprover: every required step approved. A plan whose required
//     approvers were all dropped runs the full route.
//   - Hybrid: the percentage threshold and every required step approved.
func IsComplete(plan domain.ApprovalPlan) bool {
	total := len(plan.Steps)
	if total == 0 {
		return true
	}

	approved, required, requiredApproved := 0, 0, 0
	for _, s := range plan.Steps {
		if s.Approved {
			approved++
		}
		if s.Required {
			required++
			if s.Approved {
				requiredApproved++
			}
		}
	}
	if approved == total {
		return true
	}

	percentageMet := plan.Percentage != nil && approved*100 >= *plan.Percentage*total

	switch plan.RuleType {
	case domain.RuleTypeSpecificApprover:
		return required > 0 && requiredApproved == required
	case domain.RuleTypeHybrid:
		return percentageMet && requiredApproved == required
	default:
		return percentageMet
	}
}

func assertCurrentApprover(plan domain.ApprovalPlan, actorID string) error {
	if plan.CurrentStep < 0 || plan.CurrentStep >= len(plan.Steps) {
		return fmt.Errorf("%w: plan has no step %d", ErrInvalidTransition, plan.CurrentStep)
	}
	if plan.Steps[plan.CurrentStep].ApproverID != actorID {
		return ErrNotCurrentApprover
	}
	return nil
}
