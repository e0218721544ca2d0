package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Feature struct {
	ID        string
	ProductID string
	ReleaseID *string // optional release membership
	Name      string
	State     FeatureState

	// ActualCost is computed purely from direct FEATURE cost-ledger entries.
	ActualCost decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
