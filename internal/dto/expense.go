package dto

import (
	"time"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the employee's expense claim form.
type CreateExpenseRequest struct {
	Amount            decimal.Decimal  `json:"amount" binding:"required,dgt=0"`
	Currency          string           `json:"currency" binding:"omitempty,max=10"`
	ConvertedAmount   *decimal.Decimal `json:"convertedAmount" binding:"omitempty,dgt=0"`
	Category          string           `json:"category" binding:"omitempty,max=100"`
	Description       string           `json:"description" binding:"required"`
	Date              *time.Time       `json:"date"`
	PaidBy            *string          `json:"paidBy"`
	SubmitForApproval *bool            `json:"submitForApproval"`
}

// ShouldSubmit reports whether the claim goes straight into approval. It defaults to true.
func (r CreateExpenseRequest) ShouldSubmit() bool {
	return r.SubmitForApproval == nil || *r.SubmitForApproval
}

// DecisionRequest is an approver's decision on the expense waiting on them.
type DecisionRequest struct {
	Action  string `json:"action" binding:"required,oneof=approve reject"`
	Remarks string `json:"remarks" binding:"max=1000"`
}

// AdminActionRequest carries the admin's remarks for override and reject.
type AdminActionRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

// BulkOverrideRequest lists expenses to force-approve.
type BulkOverrideRequest struct {
	ExpenseIDs []string `json:"expenseIds" binding:"required,min=1,max=100,dive,required"`
	Remarks    string   `json:"remarks" binding:"max=1000"`
}

// BulkOverrideResult is the outcome for one expense of a bulk override.
type BulkOverrideResult struct {
	ExpenseID string `json:"expenseID"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BulkOverrideResponse collects per-expense results.
type BulkOverrideResponse struct {
	Results   []BulkOverrideResult `json:"results"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
}

// ListExpensesParams defines query parameters for expense listings.
type ListExpensesParams struct {
	Status    string     `form:"status"`
	Category  string     `form:"category"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string    `form:"nextToken"`
}

// HistoryEntryResponse is one line of an expense's audit trail.
type HistoryEntryResponse struct {
	ApproverID string    `json:"approver"`
	Action     string    `json:"action"`
	Remarks    string    `json:"remarks"`
	DecidedAt  time.Time `json:"decidedAt"`
}

// PlanStepResponse is one step of the approval route.
type PlanStepResponse struct {
	StepOrder  int    `json:"stepOrder"`
	ApproverID string `json:"approverID"`
	Required   bool   `json:"required"`
	Source     string `json:"source"`
	Approved   bool   `json:"approved"`
}

// ExpenseResponse is the public view of an expense.
type ExpenseResponse struct {
	ExpenseID         string                 `json:"expenseID"`
	CompanyID         string                 `json:"companyID"`
	EmployeeID        string                 `json:"employee"`
	PaidBy            string                 `json:"paidBy"`
	Amount            decimal.Decimal        `json:"amount"`
	Currency          string                 `json:"currency"`
	ConvertedAmount   *decimal.Decimal       `json:"convertedAmount,omitempty"`
	Category          string                 `json:"category"`
	Description       string                 `json:"description"`
	Date              time.Time              `json:"date"`
	ApprovalStatus    string                 `json:"approvalStatus"`
	CurrentApproverID *string                `json:"currentApprover"`
	Remarks           string                 `json:"remarks"`
	ApprovalRuleID    *string                `json:"approvalRule,omitempty"`
	RuleType          string                 `json:"ruleType,omitempty"`
	Steps             []PlanStepResponse     `json:"steps,omitempty"`
	CurrentStep       int                    `json:"currentStep"`
	Overridden        bool                   `json:"overridden"`
	History           []HistoryEntryResponse `json:"history"`
	Version           int                    `json:"version"`
	CreatedAt         time.Time              `json:"createdAt"`
	LastUpdatedAt     time.Time              `json:"lastUpdatedAt"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	history := make([]HistoryEntryResponse, len(e.History))
	for i, h := range e.History {
		history[i] = HistoryEntryResponse{
			ApproverID: h.ApproverID,
			Action:     string(h.Action),
			Remarks:    h.Remarks,
			DecidedAt:  h.DecidedAt,
		}
	}
	resp := ExpenseResponse{
		ExpenseID:         e.ExpenseID,
		CompanyID:         e.CompanyID,
		EmployeeID:        e.EmployeeID,
		PaidBy:            e.PaidBy,
		Amount:            e.Amount,
		Currency:          e.Currency,
		ConvertedAmount:   e.ConvertedAmount,
		Category:          e.Category,
		Description:       e.Description,
		Date:              e.Date,
		ApprovalStatus:    string(e.ApprovalStatus),
		CurrentApproverID: e.CurrentApproverID,
		Remarks:           e.Remarks,
		ApprovalRuleID:    e.ApprovalRuleID,
		Overridden:        e.Overridden,
		History:           history,
		Version:           e.Version,
		CreatedAt:         e.CreatedAt,
		LastUpdatedAt:     e.LastUpdatedAt,
	}
	if e.Plan != nil {
		resp.RuleType = string(e.Plan.RuleType)
		resp.CurrentStep = e.Plan.CurrentStep
		resp.Steps = make([]PlanStepResponse, len(e.Plan.Steps))
		for i, s := range e.Plan.Steps {
			resp.Steps[i] = PlanStepResponse{
				StepOrder:  s.StepOrder,
				ApproverID: s.ApproverID,
				Required:   s.Required,
				Source:     string(s.Source),
				Approved:   s.Approved,
			}
		}
	}
	return resp
}

// ToExpenseResponses converts a slice of domain.Expense to []ExpenseResponse.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = ToExpenseResponse(&e)
	}
	return responses
}
