package mapping

import (
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/SscSPs/expense_management_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelApprovalPlan converts a domain ApprovalPlan to its JSONB document.
func ToModelApprovalPlan(d *domain.ApprovalPlan) *models.ApprovalPlan {
	if d == nil {
		return nil
	}
	steps := make([]models.PlanStep, len(d.Steps))
	for i, s := range d.Steps {
		steps[i] = models.PlanStep{
			StepOrder:  s.StepOrder,
			ApproverID: s.ApproverID,
			Required:   s.Required,
			Source:     string(s.Source),
			Approved:   s.Approved,
		}
	}
	return &models.ApprovalPlan{
		RuleID:      d.RuleID,
		RuleType:    string(d.RuleType),
		Percentage:  d.Percentage,
		Steps:       steps,
		CurrentStep: d.CurrentStep,
	}
}

// ToDomainApprovalPlan converts a JSONB plan document to a domain ApprovalPlan.
func ToDomainApprovalPlan(m *models.ApprovalPlan) *domain.ApprovalPlan {
	if m == nil {
		return nil
	}
	steps := make([]domain.PlanStep, len(m.Steps))
	for i, s := range m.Steps {
		steps[i] = domain.PlanStep{
			StepOrder:  s.StepOrder,
			ApproverID: s.ApproverID,
			Required:   s.Required,
			Source:     domain.StepSource(s.Source),
			Approved:   s.Approved,
		}
	}
	return &domain.ApprovalPlan{
		RuleID:      m.RuleID,
		RuleType:    domain.RuleType(m.RuleType),
		Percentage:  m.Percentage,
		Steps:       steps,
		CurrentStep: m.CurrentStep,
	}
}

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	converted := decimal.NullDecimal{}
	if d.ConvertedAmount != nil {
		converted = decimal.NewNullDecimal(*d.ConvertedAmount)
	}
	return models.Expense{
		ExpenseID:         d.ExpenseID,
		CompanyID:         d.CompanyID,
		EmployeeID:        d.EmployeeID,
		PaidBy:            d.PaidBy,
		Amount:            d.Amount,
		Currency:          d.Currency,
		ConvertedAmount:   converted,
		Category:          d.Category,
		Description:       d.Description,
		ExpenseDate:       d.Date,
		ApprovalStatus:    string(d.ApprovalStatus),
		CurrentApproverID: d.CurrentApproverID,
		Remarks:           d.Remarks,
		ApprovalRuleID:    d.ApprovalRuleID,
		Plan:              ToModelApprovalPlan(d.Plan),
		Overridden:        d.Overridden,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense. History is
// loaded separately.
func ToDomainExpense(m models.Expense) domain.Expense {
	var converted *decimal.Decimal
	if m.ConvertedAmount.Valid {
		v := m.ConvertedAmount.Decimal
		converted = &v
	}
	return domain.Expense{
		ExpenseID:         m.ExpenseID,
		CompanyID:         m.CompanyID,
		EmployeeID:        m.EmployeeID,
		PaidBy:            m.PaidBy,
		Amount:            m.Amount,
		Currency:          m.Currency,
		ConvertedAmount:   converted,
		Category:          m.Category,
		Description:       m.Description,
		Date:              m.ExpenseDate,
		ApprovalStatus:    domain.ApprovalStatus(m.ApprovalStatus),
		CurrentApproverID: m.CurrentApproverID,
		Remarks:           m.Remarks,
		ApprovalRuleID:    m.ApprovalRuleID,
		Plan:              ToDomainApprovalPlan(m.Plan),
		Overridden:        m.Overridden,
		History:           []domain.HistoryEntry{},
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	return mapSlice(ms, ToDomainExpense)
}

// ToModelHistory converts a domain HistoryEntry to a model ExpenseHistory
func ToModelHistory(d domain.HistoryEntry) models.ExpenseHistory {
	return models.ExpenseHistory{
		HistoryID:  d.HistoryID,
		ExpenseID:  d.ExpenseID,
		ApproverID: d.ApproverID,
		Action:     string(d.Action),
		Remarks:    d.Remarks,
		DecidedAt:  d.DecidedAt,
	}
}

// ToDomainHistory converts a model ExpenseHistory to a domain HistoryEntry
func ToDomainHistory(m models.ExpenseHistory) domain.HistoryEntry {
	return domain.HistoryEntry{
		HistoryID:  m.HistoryID,
		ExpenseID:  m.ExpenseID,
		ApproverID: m.ApproverID,
		Action:     domain.HistoryAction(m.Action),
		Remarks:    m.Remarks,
		DecidedAt:  m.DecidedAt,
	}
}
