package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/steward/internal/db"
	"github.com/alexanderramin/steward/internal/domain"
)

// SQLiteFreezeRepo reads and writes the singleton system_freeze row. The
// migration seeds the row, so Get never sees an empty table.
type SQLiteFreezeRepo struct {
	db db.DBTX
}

// NewSQLiteFreezeRepo creates a new SQLiteFreezeRepo.
func NewSQLiteFreezeRepo(conn db.DBTX) *SQLiteFreezeRepo {
	return &SQLiteFreezeRepo{db: conn}
}

func (r *SQLiteFreezeRepo) Get(ctx context.Context) (*domain.SystemFreeze, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT frozen, reason, set_by, set_at FROM system_freeze WHERE id = 'singleton'`)

	var f domain.SystemFreeze
	var frozen int
	var setAt sql.NullString
	if err := row.Scan(&frozen, &f.Reason, &f.SetBy, &setAt); err != nil {
		return nil, fmt.Errorf("reading freeze state: %w", err)
	}
	f.Frozen = intToBool(frozen)
	f.SetAt = parseNullableTime(setAt, time.RFC3339)
	return &f, nil
}

func (r *SQLiteFreezeRepo) Frozen(ctx context.Context) (bool, error) {
	f, err := r.Get(ctx)
	if err != nil {
		return false, err
	}
	return f.Frozen, nil
}

func (r *SQLiteFreezeRepo) Set(ctx context.Context, frozen bool, reason, actor string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE system_freeze SET frozen = ?, reason = ?, set_by = ?, set_at = ? WHERE id = 'singleton'`,
		boolToInt(frozen), reason, actor, nowUTC())
	if err != nil {
		return fmt.Errorf("writing freeze state: %w", err)
	}
	return nil
}
