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

// SQLiteCostEntryRepo implements CostEntryRepo over a DBTX.
type SQLiteCostEntryRepo struct {
	db db.DBTX
}

// NewSQLiteCostEntryRepo creates a new SQLiteCostEntryRepo.
func NewSQLiteCostEntryRepo(conn db.DBTX) *SQLiteCostEntryRepo {
	return &SQLiteCostEntryRepo{db: conn}
}

const dateLayout = "2006-01-02"

const costEntryColumns = `id, entity_type, entity_id, amount, category, currency, entry_date, recorded_by, created_at, updated_at`

func (r *SQLiteCostEntryRepo) Create(ctx context.Context, e *domain.CostEntry) error {
	query := `INSERT INTO cost_entries (` + costEntryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		string(e.EntityType),
		e.EntityID,
		e.Amount.String(),
		e.Category,
		e.Currency,
		e.EntryDate.Format(dateLayout),
		e.RecordedBy,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting cost entry: %w", err)
	}
	return nil
}

func (r *SQLiteCostEntryRepo) GetByID(ctx context.Context, id string) (*domain.CostEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+costEntryColumns+` FROM cost_entries WHERE id = ?`, id)
	e, err := scanCostEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("cost entry %s not found", id)
	}
	return e, err
}

func (r *SQLiteCostEntryRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]*domain.CostEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+costEntryColumns+` FROM cost_entries WHERE entity_type = ? AND entity_id = ? ORDER BY entry_date, created_at`,
		string(entityType), entityID)
	if err != nil {
		return nil, fmt.Errorf("listing cost entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.CostEntry
	for rows.Next() {
		e, err := scanCostEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cost entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteCostEntryRepo) Update(ctx context.Context, e *domain.CostEntry) error {
	query := `UPDATE cost_entries SET amount = ?, category = ?, currency = ?, entry_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		e.Amount.String(),
		e.Category,
		e.Currency,
		e.EntryDate.Format(dateLayout),
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating cost entry: %w", err)
	}
	return nil
}

func (r *SQLiteCostEntryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cost_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting cost entry: %w", err)
	}
	return nil
}

func (r *SQLiteCostEntryRepo) SumByEntity(ctx context.Context, entityType domain.EntityType, entityID string) (decimal.Decimal, error) {
	return sumDecimalColumn(ctx, r.db,
		`SELECT amount FROM cost_entries WHERE entity_type = ? AND entity_id = ?`,
		string(entityType), entityID)
}

func scanCostEntry(row rowScanner) (*domain.CostEntry, error) {
	var e domain.CostEntry
	var entityType, amount, entryDate, createdAt, updatedAt string

	err := row.Scan(&e.ID, &entityType, &e.EntityID, &amount, &e.Category, &e.Currency,
		&entryDate, &e.RecordedBy, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning cost entry: %w", err)
	}

	e.EntityType = domain.EntityType(entityType)
	e.Amount = parseDecimal(amount)
	if t, err := time.Parse(dateLayout, entryDate); err == nil {
		e.EntryDate = t
	}
	e.CreatedAt = mustParseTime(createdAt)
	e.UpdatedAt = mustParseTime(updatedAt)
	return &e, nil
}
