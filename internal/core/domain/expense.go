package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus is the closed set of states an expense moves through.
type ApprovalStatus string

const (
	StatusDraft      ApprovalStatus = "Draft"
	StatusInProgress ApprovalStatus = "InProgress"
	StatusApproved   ApprovalStatus = "Approved"
	StatusRejected   ApprovalStatus = "Rejected"
)

// AllStatuses lists every status in display order.
var AllStatuses = []ApprovalStatus{StatusDraft, StatusInProgress, StatusApproved, StatusRejected}

// IsValid reports whether s is one of the known statuses.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no normal decision can move the expense further.
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// HistoryAction records what an approver did.
type HistoryAction string

const (
	ActionApproved   HistoryAction = "Approved"
	ActionRejected   HistoryAction = "Rejected"
	ActionOverridden HistoryAction = "Overridden"
)

// HistoryEntry is one immutable line of an expense's audit trail.
type HistoryEntry struct {
	HistoryID  string        `json:"historyID"`
	ExpenseID  string        `json:"expenseID"`
	ApproverID string        `json:"approverID"`
	Action     HistoryAction `json:"action"`
	Remarks    string        `json:"remarks"`
	DecidedAt  time.Time     `json:"decidedAt"`
}

// StepSource says where a plan step came from.
type StepSource string

const (
	SourceManager  StepSource = "manager"
	SourceRule     StepSource = "rule"
	SourceFallback StepSource = "fallback"
)

// PlanStep is one position of the unified approval route.
type PlanStep struct {
	StepOrder  int        `json:"stepOrder"`
	ApproverID string     `json:"approverID"`
	Required   bool       `json:"required"`
	Source     StepSource `json:"source"`
	Approved   bool       `json:"approved"`
}

// ApprovalPlan is the route snapshot taken when an expense is submitted.
// Advancement only ever consults the snapshot, never the live rule.
type ApprovalPlan struct {
	RuleID      *string    `json:"ruleID,omitempty"`
	RuleType    RuleType   `json:"ruleType"`
	Percentage  *int       `json:"percentage,omitempty"`
	Steps       []PlanStep `json:"steps"`
	CurrentStep int        `json:"currentStep"`
}

// Clone returns a deep copy of the plan.
func (p ApprovalPlan) Clone() ApprovalPlan {
	c := p
	c.Steps = append([]PlanStep(nil), p.Steps...)
	if p.RuleID != nil {
		id := *p.RuleID
		c.RuleID = &id
	}
	if p.Percentage != nil {
		pct := *p.Percentage
		c.Percentage = &pct
	}
	return c
}

// HasApprover reports whether userID appears anywhere in the route.
func (p ApprovalPlan) HasApprover(userID string) bool {
	for _, s := range p.Steps {
		if s.ApproverID == userID {
			return true
		}
	}
	return false
}

// Expense is an employee's claim moving through the approval workflow.
// CurrentApproverID is non-nil if and only if ApprovalStatus is InProgress.
type Expense struct {
	ExpenseID         string           `json:"expenseID"`
	CompanyID         string           `json:"companyID"`
	EmployeeID        string           `json:"employeeID"`
	PaidBy            string           `json:"paidBy"`
	Amount            decimal.Decimal  `json:"amount"`
	Currency          string           `json:"currency"`
	ConvertedAmount   *decimal.Decimal `json:"convertedAmount,omitempty"`
	Category          string           `json:"category"`
	Description       string           `json:"description"`
	Date              time.Time        `json:"date"`
	ApprovalStatus    ApprovalStatus   `json:"approvalStatus"`
	CurrentApproverID *string          `json:"currentApproverID,omitempty"`
	Remarks           string           `json:"remarks"`
	ApprovalRuleID    *string          `json:"approvalRuleID,omitempty"`
	Plan              *ApprovalPlan    `json:"plan,omitempty"`
	Overridden        bool             `json:"overridden"`
	History           []HistoryEntry   `json:"history"`
	AuditFields
}

// IsVisibleTo reports whether user may read the expense. Company reviewers see
// everything in their company; everyone else needs to be on the route.
func (e Expense) IsVisibleTo(user User) bool {
	if user.CompanyID != e.CompanyID {
		return false
	}
	if e.EmployeeID == user.UserID || user.CanReviewCompany() {
		return true
	}
	if e.CurrentApproverID != nil && *e.CurrentApproverID == user.UserID {
		return true
	}
	return e.Plan != nil && e.Plan.HasApprover(user.UserID)
}

// ExpenseCursor is the keyset position of the last expense on a page.
type ExpenseCursor struct {
	CreatedAt time.Time
	ExpenseID string
}

// ExpenseFilter narrows expense listings. Results are ordered newest first.
type ExpenseFilter struct {
	CompanyID  string
	EmployeeID *string
	Status     *ApprovalStatus
	Category   *string
	From       *time.Time
	To         *time.Time
	After      *ExpenseCursor
	Limit      int
}

// StatusTotals aggregates expenses of one status.
type StatusTotals struct {
	Status ApprovalStatus  `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// ExpenseStatistics is the company-wide roll-up shown on the admin dashboard.
type ExpenseStatistics struct {
	CompanyID  string          `json:"companyID"`
	ByStatus   []StatusTotals  `json:"byStatus"`
	TotalCount int             `json:"totalCount"`
	TotalSum   decimal.Decimal `json:"totalSum"`
	Overridden int             `json:"overridden"`
}

// ApprovalStats is the manager dashboard summary.
type ApprovalStats struct {
	PendingForMe int `json:"pendingForMe"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	Pending      int `json:"pending"`
	Processed    int `json:"processed"`
}

// StateChange is a conditional write of an expense's workflow state. It only
// applies while the stored row still has ExpectedStatus, ExpectedVersion and,
// when set, ExpectedApproverID. History, when set, is appended in the same
// transaction.
type StateChange struct {
	ExpenseID          string
	ExpectedStatus     ApprovalStatus
	ExpectedApproverID *string
	ExpectedVersion    int

	Status            ApprovalStatus
	CurrentApproverID *string
	ApprovalRuleID    *string
	Plan              *ApprovalPlan
	Remarks           *string
	Overridden        bool

	History   *HistoryEntry
	UpdatedBy string
	UpdatedAt time.Time
}
