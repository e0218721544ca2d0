package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/shopspring/decimal"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SQLitePortfolioRepo implements PortfolioRepo over a DBTX, so the same repo
// type serves both direct and transaction-scoped access.
type SQLitePortfolioRepo struct {
	db db.DBTX
}

// NewSQLitePortfolioRepo creates a new SQLitePortfolioRepo.
func NewSQLitePortfolioRepo(conn db.DBTX) *SQLitePortfolioRepo {
	return &SQLitePortfolioRepo{db: conn}
}

const portfolioColumns = `id, code, name, state, locked, locked_by, locked_at,
	priority, program_manager, estimated_budget, actual_cost, rejection_reason,
	submitted_at, submitted_by, approved_at, approved_by,
	rejected_at, rejected_by, archived_at, archived_by,
	created_at, updated_at`

func (r *SQLitePortfolioRepo) Create(ctx context.Context, p *domain.Portfolio) error {
	query := `INSERT INTO portfolios (` + portfolioColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Code,
		p.Name,
		string(p.State),
		boolToInt(p.Locked),
		p.LockedBy,
		nullableTimeToString(p.LockedAt, time.RFC3339),
		p.Priority,
		p.ProgramManager,
		p.EstimatedBudget.String(),
		p.ActualCost.String(),
		p.RejectionReason,
		nullableTimeToString(p.SubmittedAt, time.RFC3339),
		p.SubmittedBy,
		nullableTimeToString(p.ApprovedAt, time.RFC3339),
		p.ApprovedBy,
		nullableTimeToString(p.RejectedAt, time.RFC3339),
		p.RejectedBy,
		nullableTimeToString(p.ArchivedAt, time.RFC3339),
		p.ArchivedBy,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting portfolio: %w", err)
	}
	return nil
}

func (r *SQLitePortfolioRepo) GetByID(ctx context.Context, id string) (*domain.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE id = ?`, id)
	p, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("portfolio %s not found", id)
	}
	return p, err
}

func (r *SQLitePortfolioRepo) GetByCode(ctx context.Context, code string) (*domain.Portfolio, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE UPPER(code) = UPPER(?)`, code)
	p, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("portfolio %s not found", code)
	}
	return p, err
}

func (r *SQLitePortfolioRepo) List(ctx context.Context) ([]*domain.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY priority DESC, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*domain.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating portfolios: %w", err)
	}
	return portfolios, nil
}

func (r *SQLitePortfolioRepo) Update(ctx context.Context, p *domain.Portfolio) error {
	query := `UPDATE portfolios SET code = ?, name = ?, state = ?, locked = ?, locked_by = ?, locked_at = ?,
		priority = ?, program_manager = ?, estimated_budget = ?, rejection_reason = ?,
		submitted_at = ?, submitted_by = ?, approved_at = ?, approved_by = ?,
		rejected_at = ?, rejected_by = ?, archived_at = ?, archived_by = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Code,
		p.Name,
		string(p.State),
		boolToInt(p.Locked),
		p.LockedBy,
		nullableTimeToString(p.LockedAt, time.RFC3339),
		p.Priority,
		p.ProgramManager,
		p.EstimatedBudget.String(),
		p.RejectionReason,
		nullableTimeToString(p.SubmittedAt, time.RFC3339),
		p.SubmittedBy,
		nullableTimeToString(p.ApprovedAt, time.RFC3339),
		p.ApprovedBy,
		nullableTimeToString(p.RejectedAt, time.RFC3339),
		p.RejectedBy,
		nullableTimeToString(p.ArchivedAt, time.RFC3339),
		p.ArchivedBy,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating portfolio: %w", err)
	}
	return nil
}

func (r *SQLitePortfolioRepo) UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE portfolios SET actual_cost = ?, updated_at = ? WHERE id = ?`,
		cost.String(), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating portfolio actual cost: %w", err)
	}
	return nil
}

func (r *SQLitePortfolioRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting portfolio: %w", err)
	}
	return nil
}

func scanPortfolio(row rowScanner) (*domain.Portfolio, error) {
	var p domain.Portfolio
	var state string
	var locked int
	var lockedAt, submittedAt, approvedAt, rejectedAt, archivedAt sql.NullString
	var estimatedBudget, actualCost string
	var createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &state, &locked, &p.LockedBy, &lockedAt,
		&p.Priority, &p.ProgramManager, &estimatedBudget, &actualCost, &p.RejectionReason,
		&submittedAt, &p.SubmittedBy, &approvedAt, &p.ApprovedBy,
		&rejectedAt, &p.RejectedBy, &archivedAt, &p.ArchivedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning portfolio: %w", err)
	}

	p.State = domain.GovernanceState(state)
	p.Locked = intToBool(locked)
	p.LockedAt = parseNullableTime(lockedAt, time.RFC3339)
	p.EstimatedBudget = parseDecimal(estimatedBudget)
	p.ActualCost = parseDecimal(actualCost)
	p.SubmittedAt = parseNullableTime(submittedAt, time.RFC3339)
	p.ApprovedAt = parseNullableTime(approvedAt, time.RFC3339)
	p.RejectedAt = parseNullableTime(rejectedAt, time.RFC3339)
	p.ArchivedAt = parseNullableTime(archivedAt, time.RFC3339)
	p.CreatedAt = mustParseTime(createdAt)
	p.UpdatedAt = mustParseTime(updatedAt)
	return &p, nil
}
