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

// SQLiteProductRepo implements ProductRepo over a DBTX.
type SQLiteProductRepo struct {
	db db.DBTX
}

// NewSQLiteProductRepo creates a new SQLiteProductRepo.
func NewSQLiteProductRepo(conn db.DBTX) *SQLiteProductRepo {
	return &SQLiteProductRepo{db: conn}
}

const productColumns = `id, portfolio_id, code, name, state, locked, locked_by, locked_at,
	estimated_cost, actual_cost, rejection_reason,
	submitted_at, submitted_by, approved_at, approved_by,
	rejected_at, rejected_by, archived_at, archived_by,
	created_at, updated_at`

func (r *SQLiteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.PortfolioID,
		p.Code,
		p.Name,
		string(p.State),
		boolToInt(p.Locked),
		p.LockedBy,
		nullableTimeToString(p.LockedAt, time.RFC3339),
		p.EstimatedCost.String(),
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
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product %s not found", id)
	}
	return p, err
}

func (r *SQLiteProductRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE portfolio_id = ? ORDER BY created_at`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (r *SQLiteProductRepo) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET code = ?, name = ?, state = ?, locked = ?, locked_by = ?, locked_at = ?,
		estimated_cost = ?, rejection_reason = ?,
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
		p.EstimatedCost.String(),
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
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET actual_cost = ?, updated_at = ? WHERE id = ?`,
		cost.String(), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating product actual cost: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) CountOpenByPortfolio(ctx context.Context, portfolioID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE portfolio_id = ? AND state IN ('DRAFT', 'SUBMITTED')`,
		portfolioID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting open products: %w", err)
	}
	return count, nil
}

func (r *SQLiteProductRepo) SumActualCostByPortfolio(ctx context.Context, portfolioID string) (decimal.Decimal, error) {
	return sumDecimalColumn(ctx, r.db,
		`SELECT actual_cost FROM products WHERE portfolio_id = ?`, portfolioID)
}

func (r *SQLiteProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var state string
	var locked int
	var lockedAt, submittedAt, approvedAt, rejectedAt, archivedAt sql.NullString
	var estimatedCost, actualCost string
	var createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.PortfolioID, &p.Code, &p.Name, &state, &locked, &p.LockedBy, &lockedAt,
		&estimatedCost, &actualCost, &p.RejectionReason,
		&submittedAt, &p.SubmittedBy, &approvedAt, &p.ApprovedBy,
		&rejectedAt, &p.RejectedBy, &archivedAt, &p.ArchivedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}

	p.State = domain.GovernanceState(state)
	p.Locked = intToBool(locked)
	p.LockedAt = parseNullableTime(lockedAt, time.RFC3339)
	p.EstimatedCost = parseDecimal(estimatedCost)
	p.ActualCost = parseDecimal(actualCost)
	p.SubmittedAt = parseNullableTime(submittedAt, time.RFC3339)
	p.ApprovedAt = parseNullableTime(approvedAt, time.RFC3339)
	p.RejectedAt = parseNullableTime(rejectedAt, time.RFC3339)
	p.ArchivedAt = parseNullableTime(archivedAt, time.RFC3339)
	p.CreatedAt = mustParseTime(createdAt)
	p.UpdatedAt = mustParseTime(updatedAt)
	return &p, nil
}

// sumDecimalColumn sums a TEXT decimal column in Go rather than SQL so the
// arithmetic stays exact.
func sumDecimalColumn(ctx context.Context, conn db.DBTX, query string, args ...any) (decimal.Decimal, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing amounts: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return decimal.Zero, fmt.Errorf("scanning amount: %w", err)
		}
		total = total.Add(parseDecimal(s))
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterating amounts: %w", err)
	}
	return total, nil
}
