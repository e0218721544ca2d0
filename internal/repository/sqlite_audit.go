package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/steward/internal/db"
)

// SQLiteAuditRepo appends to the audit_log table. Rows are never updated or
// deleted.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, ev *AuditEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor, action, entity_type, entity_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Actor, ev.Action, ev.EntityType, ev.EntityID, ev.Detail,
		ev.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("appending audit event: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) ListRecent(ctx context.Context, limit int) ([]*AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor, action, entity_type, entity_id, detail, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}
	defer rows.Close()

	var events []*AuditEvent
	for rows.Next() {
		var ev AuditEvent
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.Actor, &ev.Action, &ev.EntityType, &ev.EntityID, &ev.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		ev.CreatedAt = mustParseTime(createdAt)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}
	return events, nil
}
