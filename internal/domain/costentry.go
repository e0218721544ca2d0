package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostEntry is a leaf ledger line tagged to exactly one governed entity by
// (EntityType, EntityID). Every create/update/delete triggers a rollup of the
// owning entity's ancestors.
type CostEntry struct {
	ID         string
	EntityType EntityType
	EntityID   string
	Amount     decimal.Decimal
	Category   string
	Currency   string
	EntryDate  time.Time
	RecordedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}
