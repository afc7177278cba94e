package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanStep is stored inside expenses.plan (JSONB).
type PlanStep struct {
	StepOrder  int    `json:"stepOrder"`
	ApproverID string `json:"approverID"`
	Required   bool   `json:"required"`
	Source     string `json:"source"`
	Approved   bool   `json:"approved"`
}

// ApprovalPlan is the JSONB document kept in expenses.plan.
type ApprovalPlan struct {
	RuleID      *string    `json:"ruleID,omitempty"`
	RuleType    string     `json:"ruleType"`
	Percentage  *int       `json:"percentage,omitempty"`
	Steps       []PlanStep `json:"steps"`
	CurrentStep int        `json:"currentStep"`
}

// Expense is the expenses table row.
type Expense struct {
	ExpenseID         string              `json:"expenseID" db:"expense_id"`
	CompanyID         string              `json:"companyID" db:"company_id"`
	EmployeeID        string              `json:"employeeID" db:"employee_id"`
	PaidBy            string              `json:"paidBy" db:"paid_by"`
	Amount            decimal.Decimal     `json:"amount" db:"amount"`
	Currency          string              `json:"currency" db:"currency"`
	ConvertedAmount   decimal.NullDecimal `json:"convertedAmount" db:"converted_amount"`
	Category          string              `json:"category" db:"category"`
	Description       string              `json:"description" db:"description"`
	ExpenseDate       time.Time           `json:"date" db:"expense_date"`
	ApprovalStatus    string              `json:"approvalStatus" db:"approval_status"`
	CurrentApproverID *string             `json:"currentApproverID" db:"current_approver_id"`
	Remarks           string              `json:"remarks" db:"remarks"`
	ApprovalRuleID    *string             `json:"approvalRuleID" db:"approval_rule_id"`
	Plan              *ApprovalPlan       `json:"plan" db:"plan"`
	Overridden        bool                `json:"overridden" db:"overridden"`
	AuditFields
}

// ExpenseHistory is the expense_history table row.
type ExpenseHistory struct {
	HistoryID  string    `json:"historyID" db:"history_id"`
	ExpenseID  string    `json:"expenseID" db:"expense_id"`
	ApproverID string    `json:"approverID" db:"approver_id"`
	Action     string    `json:"action" db:"action"`
	Remarks    string    `json:"remarks" db:"remarks"`
	DecidedAt  time.Time `json:"decidedAt" db:"decided_at"`
}
