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

// SQLiteReleaseRepo implements ReleaseRepo over a DBTX.
type SQLiteReleaseRepo struct {
	db db.DBTX
}

// NewSQLiteReleaseRepo creates a new SQLiteReleaseRepo.
func NewSQLiteReleaseRepo(conn db.DBTX) *SQLiteReleaseRepo {
	return &SQLiteReleaseRepo{db: conn}
}

const releaseColumns = `id, product_id, name, state, locked, locked_by, locked_at,
	gonogo_submitted, gonogo_submitted_at, gonogo_submitted_by,
	gonogo_decision, gonogo_decided_at, gonogo_decided_by,
	actual_cost, rejection_reason,
	submitted_at, submitted_by, approved_at, approved_by,
	rejected_at, rejected_by, archived_at, archived_by,
	created_at, updated_at`

func (r *SQLiteReleaseRepo) Create(ctx context.Context, rel *domain.Release) error {
	query := `INSERT INTO releases (` + releaseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var decision interface{}
	if rel.GoNogoDecision != nil {
		decision = string(*rel.GoNogoDecision)
	}
	_, err := r.db.ExecContext(ctx, query,
		rel.ID,
		rel.ProductID,
		rel.Name,
		string(rel.State),
		boolToInt(rel.Locked),
		rel.LockedBy,
		nullableTimeToString(rel.LockedAt, time.RFC3339),
		boolToInt(rel.GoNogoSubmitted),
		nullableTimeToString(rel.GoNogoSubmittedAt, time.RFC3339),
		rel.GoNogoSubmittedBy,
		decision,
		nullableTimeToString(rel.GoNogoDecidedAt, time.RFC3339),
		rel.GoNogoDecidedBy,
		rel.ActualCost.String(),
		rel.RejectionReason,
		nullableTimeToString(rel.SubmittedAt, time.RFC3339),
		rel.SubmittedBy,
		nullableTimeToString(rel.ApprovedAt, time.RFC3339),
		rel.ApprovedBy,
		nullableTimeToString(rel.RejectedAt, time.RFC3339),
		rel.RejectedBy,
		nullableTimeToString(rel.ArchivedAt, time.RFC3339),
		rel.ArchivedBy,
		rel.CreatedAt.Format(time.RFC3339),
		rel.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting release: %w", err)
	}
	return nil
}

func (r *SQLiteReleaseRepo) GetByID(ctx context.Context, id string) (*domain.Release, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM releases WHERE id = ?`, id)
	rel, err := scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("release %s not found", id)
	}
	return rel, err
}

func (r *SQLiteReleaseRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Release, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+releaseColumns+` FROM releases WHERE product_id = ? ORDER BY created_at`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}
	defer rows.Close()

	var releases []*domain.Release
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		releases = append(releases, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating releases: %w", err)
	}
	return releases, nil
}

func (r *SQLiteReleaseRepo) Update(ctx context.Context, rel *domain.Release) error {
	query := `UPDATE releases SET name = ?, state = ?, locked = ?, locked_by = ?, locked_at = ?,
		gonogo_submitted = ?, gonogo_submitted_at = ?, gonogo_submitted_by = ?,
		gonogo_decision = ?, gonogo_decided_at = ?, gonogo_decided_by = ?,
		rejection_reason = ?,
		submitted_at = ?, submitted_by = ?, approved_at = ?, approved_by = ?,
		rejected_at = ?, rejected_by = ?, archived_at = ?, archived_by = ?, updated_at = ?
		WHERE id = ?`
	var decision interface{}
	if rel.GoNogoDecision != nil {
		decision = string(*rel.GoNogoDecision)
	}
	_, err := r.db.ExecContext(ctx, query,
		rel.Name,
		string(rel.State),
		boolToInt(rel.Locked),
		rel.LockedBy,
		nullableTimeToString(rel.LockedAt, time.RFC3339),
		boolToInt(rel.GoNogoSubmitted),
		nullableTimeToString(rel.GoNogoSubmittedAt, time.RFC3339),
		rel.GoNogoSubmittedBy,
		decision,
		nullableTimeToString(rel.GoNogoDecidedAt, time.RFC3339),
		rel.GoNogoDecidedBy,
		rel.RejectionReason,
		nullableTimeToString(rel.SubmittedAt, time.RFC3339),
		rel.SubmittedBy,
		nullableTimeToString(rel.ApprovedAt, time.RFC3339),
		rel.ApprovedBy,
		nullableTimeToString(rel.RejectedAt, time.RFC3339),
		rel.RejectedBy,
		nullableTimeToString(rel.ArchivedAt, time.RFC3339),
		rel.ArchivedBy,
		rel.UpdatedAt.Format(time.RFC3339),
		rel.ID,
	)
	if err != nil {
		return fmt.Errorf("updating release: %w", err)
	}
	return nil
}

func (r *SQLiteReleaseRepo) UpdateActualCost(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE releases SET actual_cost = ?, updated_at = ? WHERE id = ?`,
		cost.String(), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating release actual cost: %w", err)
	}
	return nil
}

func (r *SQLiteReleaseRepo) AddChecklistItem(ctx context.Context, item *domain.ChecklistItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO release_checklist (id, release_id, item, completed, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.ReleaseID, item.Item, boolToInt(item.Completed), item.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting checklist item: %w", err)
	}
	return nil
}

func (r *SQLiteReleaseRepo) ListChecklist(ctx context.Context, releaseID string) ([]*domain.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, release_id, item, completed, created_at FROM release_checklist WHERE release_id = ? ORDER BY created_at`,
		releaseID)
	if err != nil {
		return nil, fmt.Errorf("listing checklist: %w", err)
	}
	defer rows.Close()

	var items []*domain.ChecklistItem
	for rows.Next() {
		var item domain.ChecklistItem
		var completed int
		var createdAt string
		if err := rows.Scan(&item.ID, &item.ReleaseID, &item.Item, &completed, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning checklist item: %w", err)
		}
		item.Completed = intToBool(completed)
		item.CreatedAt = mustParseTime(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checklist: %w", err)
	}
	return items, nil
}

func (r *SQLiteReleaseRepo) SetChecklistCompleted(ctx context.Context, itemID string, completed bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE release_checklist SET completed = ? WHERE id = ?`, boolToInt(completed), itemID)
	if err != nil {
		return fmt.Errorf("updating checklist item: %w", err)
	}
	return nil
}

func (r *SQLiteReleaseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM releases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting release: %w", err)
	}
	return nil
}

func scanRelease(row rowScanner) (*domain.Release, error) {
	var rel domain.Release
	var state string
	var locked, gonogoSubmitted int
	var lockedAt, gonogoSubmittedAt, gonogoDecidedAt sql.NullString
	var decision sql.NullString
	var submittedAt, approvedAt, rejectedAt, archivedAt sql.NullString
	var actualCost, createdAt, updatedAt string

	err := row.Scan(
		&rel.ID, &rel.ProductID, &rel.Name, &state, &locked, &rel.LockedBy, &lockedAt,
		&gonogoSubmitted, &gonogoSubmittedAt, &rel.GoNogoSubmittedBy,
		&decision, &gonogoDecidedAt, &rel.GoNogoDecidedBy,
		&actualCost, &rel.RejectionReason,
		&submittedAt, &rel.SubmittedBy, &approvedAt, &rel.ApprovedBy,
		&rejectedAt, &rel.RejectedBy, &archivedAt, &rel.ArchivedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning release: %w", err)
	}

	rel.State = domain.GovernanceState(state)
	rel.Locked = intToBool(locked)
	rel.LockedAt = parseNullableTime(lockedAt, time.RFC3339)
	rel.GoNogoSubmitted = intToBool(gonogoSubmitted)
	rel.GoNogoSubmittedAt = parseNullableTime(gonogoSubmittedAt, time.RFC3339)
	if decision.Valid {
		d := domain.GoNoGoDecision(decision.String)
		rel.GoNogoDecision = &d
	}
	rel.GoNogoDecidedAt = parseNullableTime(gonogoDecidedAt, time.RFC3339)
	rel.ActualCost = parseDecimal(actualCost)
	rel.SubmittedAt = parseNullableTime(submittedAt, time.RFC3339)
	rel.ApprovedAt = parseNullableTime(approvedAt, time.RFC3339)
	rel.RejectedAt = parseNullableTime(rejectedAt, time.RFC3339)
	rel.ArchivedAt = parseNullableTime(archivedAt, time.RFC3339)
	rel.CreatedAt = mustParseTime(createdAt)
	rel.UpdatedAt = mustParseTime(updatedAt)
	return &rel, nil
}
