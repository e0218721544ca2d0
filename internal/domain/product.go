package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string
	PortfolioID string
	Code        string
	Name        string
	State       GovernanceState
	LockInfo
	ApprovalStamps

	EstimatedCost   decimal.Decimal
	ActualCost      decimal.Decimal
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductAssignment links a product manager to a product. Assignment is
// many-to-many: a product may have several managers and a manager several
// products.
type ProductAssignment struct {
	UserID    string
	ProductID string
	CreatedAt time.Time
}
