package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateCard maps a (team type, grade/role) pair to a cost for an
// effective-date window. Multiple cards may exist per pair across time;
// resolution picks the active card with the latest not-yet-future
// EffectiveFrom.
type RateCard struct {
	ID          string
	TeamTypeID  string
	GradeRoleID string

	MonthlyCost decimal.Decimal
	DailyCost   decimal.Decimal
	HourlyCost  decimal.Decimal
	Currency    string

	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = open-ended
	Active        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
