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
)

// SQLiteRateCardRepo implements RateCardRepo over a DBTX.
type SQLiteRateCardRepo struct {
	db db.DBTX
}

// NewSQLiteRateCardRepo creates a new SQLiteRateCardRepo.
func NewSQLiteRateCardRepo(conn db.DBTX) *SQLiteRateCardRepo {
	return &SQLiteRateCardRepo{db: conn}
}

const rateCardColumns = `id, team_type_id, grade_role_id, monthly_cost, daily_cost, hourly_cost,
	currency, effective_from, effective_to, active, created_at, updated_at`

func (r *SQLiteRateCardRepo) Create(ctx context.Context, c *domain.RateCard) error {
	query := `INSERT INTO rate_cards (` + rateCardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.TeamTypeID,
		c.GradeRoleID,
		c.MonthlyCost.String(),
		c.DailyCost.String(),
		c.HourlyCost.String(),
		c.Currency,
		c.EffectiveFrom.Format(dateLayout),
		nullableTimeToString(c.EffectiveTo, dateLayout),
		boolToInt(c.Active),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting rate card: %w", err)
	}
	return nil
}

func (r *SQLiteRateCardRepo) GetByID(ctx context.Context, id string) (*domain.RateCard, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rateCardColumns+` FROM rate_cards WHERE id = ?`, id)
	c, err := scanRateCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("rate card %s not found", id)
	}
	return c, err
}

func (r *SQLiteRateCardRepo) List(ctx context.Context) ([]*domain.RateCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rateCardColumns+` FROM rate_cards ORDER BY team_type_id, grade_role_id, effective_from DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing rate cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.RateCard
	for rows.Next() {
		c, err := scanRateCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rate cards: %w", err)
	}
	return cards, nil
}

func (r *SQLiteRateCardRepo) Update(ctx context.Context, c *domain.RateCard) error {
	query := `UPDATE rate_cards SET monthly_cost = ?, daily_cost = ?, hourly_cost = ?, currency = ?,
		effective_from = ?, effective_to = ?, active = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		c.MonthlyCost.String(),
		c.DailyCost.String(),
		c.HourlyCost.String(),
		c.Currency,
		c.EffectiveFrom.Format(dateLayout),
		nullableTimeToString(c.EffectiveTo, dateLayout),
		boolToInt(c.Active),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rate card: %w", err)
	}
	return nil
}

// FindActive picks the active card for the pair whose effective_from is the
// latest one not in the future. Returns (nil, nil) with no match; a missing
// rate is a business condition, not a lookup failure.
func (r *SQLiteRateCardRepo) FindActive(ctx context.Context, teamTypeID, gradeRoleID string, asOf time.Time) (*domain.RateCard, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+rateCardColumns+` FROM rate_cards
		WHERE team_type_id = ? AND grade_role_id = ? AND active = 1
			AND effective_from <= ?
			AND (effective_to IS NULL OR effective_to > ?)
		ORDER BY effective_from DESC
		LIMIT 1`,
		teamTypeID, gradeRoleID, asOf.Format(dateLayout), asOf.Format(dateLayout))
	c, err := scanRateCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *SQLiteRateCardRepo) HasOverlap(ctx context.Context, teamTypeID, gradeRoleID string, from time.Time, to *time.Time, excludeID string) (bool, error) {
	// Two windows [a, b) and [c, d) overlap when a < d and c < b, with NULL
	// end dates treated as open-ended.
	query := `SELECT COUNT(*) FROM rate_cards
		WHERE team_type_id = ? AND grade_role_id = ? AND active = 1 AND id != ?
			AND (? IS NULL OR effective_from < ?)
			AND (effective_to IS NULL OR effective_to > ?)`
	var toVal interface{}
	if to != nil {
		toVal = to.Format(dateLayout)
	}
	var count int
	err := r.db.QueryRowContext(ctx, query,
		teamTypeID, gradeRoleID, excludeID,
		toVal, toVal, from.Format(dateLayout)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking rate card overlap: %w", err)
	}
	return count > 0, nil
}

func scanRateCard(row rowScanner) (*domain.RateCard, error) {
	var c domain.RateCard
	var monthly, daily, hourly string
	var effectiveFrom string
	var effectiveTo sql.NullString
	var active int
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.TeamTypeID, &c.GradeRoleID, &monthly, &daily, &hourly,
		&c.Currency, &effectiveFrom, &effectiveTo, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning rate card: %w", err)
	}

	c.MonthlyCost = parseDecimal(monthly)
	c.DailyCost = parseDecimal(daily)
	c.HourlyCost = parseDecimal(hourly)
	if t, err := time.Parse(dateLayout, effectiveFrom); err == nil {
		c.EffectiveFrom = t
	}
	c.EffectiveTo = parseNullableTime(effectiveTo, dateLayout)
	c.Active = intToBool(active)
	c.CreatedAt = mustParseTime(createdAt)
	c.UpdatedAt = mustParseTime(updatedAt)
	return &c, nil
}
