package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/expense_management_app/internal/apperrors"
	"github.com/SscSPs/expense_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_management_app/internal/models"
	"github.com/SscSPs/expense_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(db *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, country, default_currency, admin_id, is_active,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.Country,
		&m.DefaultCurrency,
		&m.AdminID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// SaveCompanyWithAdmin relies on the deferred companies.admin_id foreign key
// so both rows can be inserted in one transaction.
func (r *PgxCompanyRepository) SaveCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.User) error {
	m := mapping.ToModelCompany(company)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO companies (company_id, name, country, default_currency, admin_id, is_active,
			                       created_at, created_by, last_updated_at, last_updated_by, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`
		if _, err := tx.Exec(ctx, query,
			m.CompanyID,
			m.Name,
			m.Country,
			m.DefaultCurrency,
			m.AdminID,
			m.IsActive,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.Version,
		); err != nil {
			return fmt.Errorf("failed to insert company: %w", err)
		}
		return insertUser(ctx, tx, mapping.ToModelUser(admin))
	})
}

func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
		UPDATE companies
		SET name = $2, country = $3, default_currency = $4,
		    last_updated_at = $5, last_updated_by = $6, version = version + 1
		WHERE company_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.Country,
		m.DefaultCurrency,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update company %s: %w", m.CompanyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
