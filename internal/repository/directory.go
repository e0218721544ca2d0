package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/db"
)

// SQLiteDirectory answers the ownership lookups the permission engine needs:
// product→portfolio, release→product, feature→product, feature archival, and
// product-manager assignment. All queries are single-row reads.
type SQLiteDirectory struct {
	db db.DBTX
}

// NewSQLiteDirectory creates a new SQLiteDirectory.
func NewSQLiteDirectory(conn db.DBTX) *SQLiteDirectory {
	return &SQLiteDirectory{db: conn}
}

func (d *SQLiteDirectory) ProductPortfolio(ctx context.Context, productID string) (string, error) {
	var portfolioID string
	err := d.db.QueryRowContext(ctx,
		`SELECT portfolio_id FROM products WHERE id = ?`, productID).Scan(&portfolioID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("product %s not found", productID)
	}
	if err != nil {
		return "", fmt.Errorf("resolving product portfolio: %w", err)
	}
	return portfolioID, nil
}

func (d *SQLiteDirectory) ReleaseProduct(ctx context.Context, releaseID string) (string, error) {
	var productID string
	err := d.db.QueryRowContext(ctx,
		`SELECT product_id FROM releases WHERE id = ?`, releaseID).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("release %s not found", releaseID)
	}
	if err != nil {
		return "", fmt.Errorf("resolving release product: %w", err)
	}
	return productID, nil
}

func (d *SQLiteDirectory) FeatureProduct(ctx context.Context, featureID string) (string, error) {
	var productID string
	err := d.db.QueryRowContext(ctx,
		`SELECT product_id FROM features WHERE id = ?`, featureID).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.NotFound("feature %s not found", featureID)
	}
	if err != nil {
		return "", fmt.Errorf("resolving feature product: %w", err)
	}
	return productID, nil
}

func (d *SQLiteDirectory) FeatureArchived(ctx context.Context, featureID string) (bool, error) {
	var state string
	err := d.db.QueryRowContext(ctx,
		`SELECT state FROM features WHERE id = ?`, featureID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return false, apperr.NotFound("feature %s not found", featureID)
	}
	if err != nil {
		return false, fmt.Errorf("resolving feature state: %w", err)
	}
	return state == "ARCHIVED", nil
}

func (d *SQLiteDirectory) AssignedToProduct(ctx context.Context, userID, productID string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_assignments WHERE user_id = ? AND product_id = ?`,
		userID, productID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking product assignment: %w", err)
	}
	return count > 0, nil
}
