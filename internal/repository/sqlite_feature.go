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

// SQLiteFeatureRepo implements FeatureRepo over a DBTX.
type SQLiteFeatureRepo struct {
	db db.DBTX
}

// NewSQLiteFeatureRepo creates a new SQLiteFeatureRepo.
func NewSQLiteFeatureRepo(conn db.DBTX) *SQLiteFeatureRepo {
	return &SQLiteFeatureRepo{db: conn}
}

const featureColumns = `id, product_id, release_id, name, state, actual_cost, created_at, updated_at`

func (r *SQLiteFeatureRepo) Create(ctx context.Context, f *domain.Feature) error {
	query := `INSERT INTO features (` + featureColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.ProductID,
		nullableStringToValue(f.ReleaseID),
		f.Name,
		string(f.State),
		f.ActualCost.String(),
		f.CreatedAt.Format(time.RFC3339),
		f.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting feature: %w", err)
	}
	return nil
}

func (r *SQLiteFeatureRepo) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+featureColumns+` FROM features WHERE id = ?`, id)
	f, err := scanFeature(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("feature %s not found", id)
	}
	return f, err
}

func (r *SQLiteFeatureRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Feature, error) {
	return r.list(ctx, `SELECT `+featureColumns+` FROM features WHERE product_id = ? ORDER BY created_at`, productID)
}

func (r *SQLiteFeatureRepo) ListByRelease(ctx context.Context, releaseID string) ([]*domain.Feature, error) {
	return r.list(ctx, `SELECT `+featureColumns+` FROM features WHERE release_id = ? ORDER BY created_at`, releaseID)
}

func (r *SQLiteFeatureRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Feature, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing features: %w", err)
	}
	defer rows.Close()

	var features []*domain.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating features: %w", err)
	}
	return features, nil
}

func (r *SQLiteFeatureRepo) Update(ctx context.Context, f *domain.Feature) error {
	query := `UPDATE features SET release_id = ?, name = ?, state = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(f.ReleaseID),
		f.Name,
		string(f.State),
		f.UpdatedAt.Format(time.RFC3339),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating feature: %w", err)
	}
	return nil
}

func (r *SQLiteFeatureRepo) UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE features SET actual_cost = ?, updated_at = ? WHERE id = ?`,
		cost.String(), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating feature actual cost: %w", err)
	}
	return nil
}

func (r *SQLiteFeatureRepo) SumActualCostByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	return sumDecimalColumn(ctx, r.db,
		`SELECT actual_cost FROM features WHERE product_id = ?`, productID)
}

func (r *SQLiteFeatureRepo) SumActualCostByRelease(ctx context.Context, releaseID string) (decimal.Decimal, error) {
	return sumDecimalColumn(ctx, r.db,
		`SELECT actual_cost FROM features WHERE release_id = ?`, releaseID)
}

func (r *SQLiteFeatureRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM features WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting feature: %w", err)
	}
	return nil
}

func scanFeature(row rowScanner) (*domain.Feature, error) {
	var f domain.Feature
	var releaseID sql.NullString
	var state, actualCost, createdAt, updatedAt string

	err := row.Scan(&f.ID, &f.ProductID, &releaseID, &f.Name, &state, &actualCost, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning feature: %w", err)
	}

	f.ReleaseID = nullStringToPtr(releaseID)
	f.State = domain.FeatureState(state)
	f.ActualCost = parseDecimal(actualCost)
	f.CreatedAt = mustParseTime(createdAt)
	f.UpdatedAt = mustParseTime(updatedAt)
	return &f, nil
}
