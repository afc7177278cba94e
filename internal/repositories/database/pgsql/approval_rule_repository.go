package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_management_app/internal/models"
	"github.com/SscSPs/expense_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `rule_id, company_id, name, approval_steps, rule_type, is_manager_approver_required,
	default_manager_id, is_sequential, percentage, specific_approvers, is_active,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxApprovalRuleRepository struct {
	BaseRepository
}

func newPgxApprovalRuleRepository(db *pgxpool.Pool) portsrepo.ApprovalRuleRepositoryFacade {
	return &PgxApprovalRuleRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ApprovalRuleRepositoryFacade = (*PgxApprovalRuleRepository)(nil)

func scanRule(row pgx.Row) (models.ApprovalRule, error) {
	var m models.ApprovalRule
	err := row.Scan(
		&m.RuleID,
		&m.CompanyID,
		&m.Name,
		&m.ApprovalSteps,
		&m.RuleType,
		&m.IsManagerApproverRequired,
		&m.DefaultManagerID,
		&m.IsSequential,
		&m.Percentage,
		&m.SpecificApprovers,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	return m, err
}

func (r *PgxApprovalRuleRepository) FindActiveRuleByCompany(ctx context.Context, companyID string) (*domain.ApprovalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM approval_rules WHERE company_id = $1 AND is_active;`
	return r.findOne(ctx, query, companyID)
}

func (r *PgxApprovalRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM approval_rules WHERE rule_id = $1;`
	return r.findOne(ctx, query, ruleID)
}

func (r *PgxApprovalRuleRepository) findOne(ctx context.Context, query string, arg string) (*domain.ApprovalRule, error) {
	m, err := scanRule(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find approval rule: %w", err)
	}
	rule := mapping.ToDomainApprovalRule(m)
	return &rule, nil
}

func (r *PgxApprovalRuleRepository) SaveRule(ctx context.Context, rule domain.ApprovalRule) error {
	m := mapping.ToModelApprovalRule(rule)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		deactivate := `
			UPDATE approval_rules
			SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3, version = version + 1
			WHERE company_id = $1 AND is_active;
		`
		if _, err := tx.Exec(ctx, deactivate, m.CompanyID, m.CreatedAt, m.CreatedBy); err != nil {
			return fmt.Errorf("failed to deactivate previous approval rule: %w", err)
		}

		insert := `
			INSERT INTO approval_rules (` + ruleColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
		`
		if _, err := tx.Exec(ctx, insert,
			m.RuleID,
			m.CompanyID,
			m.Name,
			m.ApprovalSteps,
			m.RuleType,
			m.IsManagerApproverRequired,
			m.DefaultManagerID,
			m.IsSequential,
			m.Percentage,
			m.SpecificApprovers,
			m.IsActive,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.Version,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("company %s already has an active rule: %w", m.CompanyID, apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to insert approval rule: %w", err)
		}
		return nil
	})
}

func (r *PgxApprovalRuleRepository) DeactivateRule(ctx context.Context, ruleID string, deactivatedAt time.Time, deactivatedBy string) error {
	query := `
		UPDATE approval_rules
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE rule_id = $1 AND is_active;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ruleID, deactivatedAt, deactivatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate approval rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
