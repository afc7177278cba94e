package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_management_app/internal/models"
	"github.com/SscSPs/expense_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const expenseColumns = `expense_id, company_id, employee_id, paid_by, amount, currency, converted_amount,
	category, description, expense_date, approval_status, current_approver_id, remarks,
	approval_rule_id, plan, overridden, created_at, created_by, last_updated_at, last_updated_by, version`

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(db *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.CompanyID,
		&m.EmployeeID,
		&m.PaidBy,
		&m.Amount,
		&m.Currency,
		&m.ConvertedAmount,
		&m.Category,
		&m.Description,
		&m.ExpenseDate,
		&m.ApprovalStatus,
		&m.CurrentApproverID,
		&m.Remarks,
		&m.ApprovalRuleID,
		&m.Plan,
		&m.Overridden,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.CompanyID,
		m.EmployeeID,
		m.PaidBy,
		m.Amount,
		m.Currency,
		m.ConvertedAmount,
		m.Category,
		m.Description,
		m.ExpenseDate,
		m.ApprovalStatus,
		m.CurrentApproverID,
		m.Remarks,
		m.ApprovalRuleID,
		m.Plan,
		m.Overridden,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("expense %s: %w", m.ExpenseID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}

	expense := mapping.ToDomainExpense(m)
	history, err := r.findHistory(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	expense.History = history
	return &expense, nil
}

func (r *PgxExpenseRepository) findHistory(ctx context.Context, expenseID string) ([]domain.HistoryEntry, error) {
	query := `
		SELECT history_id, expense_id, approver_id, action, remarks, decided_at
		FROM expense_history
		WHERE expense_id = $1
		ORDER BY decided_at, history_id;
	`
	rows, err := r.Pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense history: %w", err)
	}
	defer rows.Close()

	history := []domain.HistoryEntry{}
	for rows.Next() {
		var h models.ExpenseHistory
		if err := rows.Scan(&h.HistoryID, &h.ExpenseID, &h.ApproverID, &h.Action, &h.Remarks, &h.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense history row: %w", err)
		}
		history = append(history, mapping.ToDomainHistory(h))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense history rows: %w", err)
	}
	return history, nil
}

func (r *PgxExpenseRepository) FindExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	var (
		where = []string{"company_id = $1"}
		args  = []any{filter.CompanyID}
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil {
		add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		add("approval_status = $%d", string(*filter.Status))
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.From != nil {
		add("expense_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		// To is a calendar day and is inclusive.
		add("expense_date < $%d", filter.To.AddDate(0, 0, 1))
	}
	if filter.After != nil {
		args = append(args, filter.After.CreatedAt, filter.After.ExpenseID)
		where = append(where, fmt.Sprintf("(created_at, expense_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC, expense_id DESC LIMIT $%d", len(args))

	return r.queryExpenses(ctx, query, args...)
}

func (r *PgxExpenseRepository) FindPendingForApprover(ctx context.Context, approverID string) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE current_approver_id = $1 AND approval_status = $2
		ORDER BY created_at DESC, expense_id DESC;`
	return r.queryExpenses(ctx, query, approverID, string(domain.StatusInProgress))
}

func (r *PgxExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		modelExpenses = append(modelExpenses, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return mapping.ToDomainExpenseSlice(modelExpenses), nil
}

// ApplyStateChange updates the expense only while it still matches the
// expected status, version and approver, and appends the history entry in
// the same transaction.
func (r *PgxExpenseRepository) ApplyStateChange(ctx context.Context, change domain.StateChange) error {
	plan := mapping.ToModelApprovalPlan(change.Plan)
	var ruleID any
	if change.ApprovalRuleID != nil {
		ruleID = *change.ApprovalRuleID
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE expenses SET
				approval_status = $2,
				current_approver_id = $3,
				approval_rule_id = COALESCE($4::text, approval_rule_id),
				plan = COALESCE($5::jsonb, plan),
				remarks = COALESCE($6::text, remarks),
				overridden = overridden OR $7,
				last_updated_at = $8,
				last_updated_by = $9,
				version = version + 1
			WHERE expense_id = $1
			  AND approval_status = $10
			  AND version = $11
			  AND ($12::text IS NULL OR current_approver_id = $12::text);
		`
		cmdTag, err := tx.Exec(ctx, query,
			change.ExpenseID,
			string(change.Status),
			change.CurrentApproverID,
			ruleID,
			plan,
			change.Remarks,
			change.Overridden,
			change.UpdatedAt,
			change.UpdatedBy,
			string(change.ExpectedStatus),
			change.ExpectedVersion,
			change.ExpectedApproverID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense %s: %w", change.ExpenseID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("expense %s at version %d: %w", change.ExpenseID, change.ExpectedVersion, apperrors.ErrConflict)
		}

		if change.History == nil {
			return nil
		}
		h := mapping.ToModelHistory(*change.History)
		insert := `
			INSERT INTO expense_history (history_id, expense_id, approver_id, action, remarks, decided_at)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		if _, err := tx.Exec(ctx, insert, h.HistoryID, h.ExpenseID, h.ApproverID, h.Action, h.Remarks, h.DecidedAt); err != nil {
			return fmt.Errorf("failed to insert expense history: %w", err)
		}
		return nil
	})
}

// ExpenseStatistics sums converted amounts where present, otherwise the original amount.
func (r *PgxExpenseRepository) ExpenseStatistics(ctx context.Context, companyID string) (*domain.ExpenseStatistics, error) {
	query := `
		SELECT approval_status,
		       COUNT(*),
		       COALESCE(SUM(COALESCE(converted_amount, amount)), 0),
		       COUNT(*) FILTER (WHERE overridden)
		FROM expenses
		WHERE company_id = $1
		GROUP BY approval_status;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[domain.ApprovalStatus]domain.StatusTotals, len(domain.AllStatuses))
	stats := &domain.ExpenseStatistics{CompanyID: companyID, TotalSum: decimal.Zero}
	for rows.Next() {
		var (
			status     string
			count      int
			total      decimal.Decimal
			overridden int
		)
		if err := rows.Scan(&status, &count, &total, &overridden); err != nil {
			return nil, fmt.Errorf("failed to scan expense statistics row: %w", err)
		}
		byStatus[domain.ApprovalStatus(status)] = domain.StatusTotals{Status: domain.ApprovalStatus(status), Count: count, Total: total}
		stats.TotalCount += count
		stats.TotalSum = stats.TotalSum.Add(total)
		stats.Overridden += overridden
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense statistics rows: %w", err)
	}

	for _, s := range domain.AllStatuses {
		t, ok := byStatus[s]
		if !ok {
			t = domain.StatusTotals{Status: s, Total: decimal.Zero}
		}
		stats.ByStatus = append(stats.ByStatus, t)
	}
	return stats, nil
}

func (r *PgxExpenseRepository) CountPendingForApprover(ctx context.Context, approverID string) (int, error) {
	query := `SELECT COUNT(*) FROM expenses WHERE current_approver_id = $1 AND approval_status = $2;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, approverID, string(domain.StatusInProgress)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending approvals: %w", err)
	}
	return count, nil
}
