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

// SQLiteAllocationRepo implements AllocationRepo over a DBTX.
type SQLiteAllocationRepo struct {
	db db.DBTX
}

// NewSQLiteAllocationRepo creates a new SQLiteAllocationRepo.
func NewSQLiteAllocationRepo(conn db.DBTX) *SQLiteAllocationRepo {
	return &SQLiteAllocationRepo{db: conn}
}

const allocationColumns = `id, portfolio_id, phase, team_type_id, grade_role_id, feature_id, quarter,
	hourly_rate, actual_hours, utilization, actual_cost, duration_days,
	created_by, created_at, updated_at`

func (r *SQLiteAllocationRepo) Create(ctx context.Context, a *domain.ResourceAllocation) error {
	query := `INSERT INTO resource_allocations (` + allocationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.PortfolioID,
		a.Phase,
		a.TeamTypeID,
		a.GradeRoleID,
		nullableStringToValue(a.FeatureID),
		a.Quarter,
		a.HourlyRate.String(),
		a.ActualHours,
		a.Utilization,
		a.ActualCost.String(),
		a.DurationDays,
		a.CreatedBy,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) GetByID(ctx context.Context, id string) (*domain.ResourceAllocation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+allocationColumns+` FROM resource_allocations WHERE id = ?`, id)
	a, err := scanAllocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("allocation %s not found", id)
	}
	return a, err
}

func (r *SQLiteAllocationRepo) ListByPortfolio(ctx context.Context, portfolioID string) ([]*domain.ResourceAllocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+allocationColumns+` FROM resource_allocations WHERE portfolio_id = ? ORDER BY created_at`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*domain.ResourceAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocations: %w", err)
	}
	return allocations, nil
}

func (r *SQLiteAllocationRepo) Update(ctx context.Context, a *domain.ResourceAllocation) error {
	query := `UPDATE resource_allocations SET phase = ?, team_type_id = ?, grade_role_id = ?, feature_id = ?,
		quarter = ?, hourly_rate = ?, actual_hours = ?, utilization = ?, actual_cost = ?, duration_days = ?,
		updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		a.Phase,
		a.TeamTypeID,
		a.GradeRoleID,
		nullableStringToValue(a.FeatureID),
		a.Quarter,
		a.HourlyRate.String(),
		a.ActualHours,
		a.Utilization,
		a.ActualCost.String(),
		a.DurationDays,
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM resource_allocations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) SumActualCostByPortfolio(ctx context.Context, portfolioID string) (decimal.Decimal, error) {
	return sumDecimalColumn(ctx, r.db,
		`SELECT actual_cost FROM resource_allocations WHERE portfolio_id = ?`, portfolioID)
}

func scanAllocation(row rowScanner) (*domain.ResourceAllocation, error) {
	var a domain.ResourceAllocation
	var featureID sql.NullString
	var hourlyRate, actualCost, createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &a.PortfolioID, &a.Phase, &a.TeamTypeID, &a.GradeRoleID, &featureID, &a.Quarter,
		&hourlyRate, &a.ActualHours, &a.Utilization, &actualCost, &a.DurationDays,
		&a.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning allocation: %w", err)
	}

	a.FeatureID = nullStringToPtr(featureID)
	a.HourlyRate = parseDecimal(hourlyRate)
	a.ActualCost = parseDecimal(actualCost)
	a.CreatedAt = mustParseTime(createdAt)
	a.UpdatedAt = mustParseTime(updatedAt)
	return &a, nil
}
