package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResourceAllocation is a labor-planning line under a portfolio. HourlyRate
// is snapshotted at create/edit time; later rate-card changes never alter an
// existing allocation.
type ResourceAllocation struct {
	ID          string
	PortfolioID string
	Phase       string
	TeamTypeID  string
	GradeRoleID string
	FeatureID   *string
	Quarter     string

	HourlyRate  decimal.Decimal
	ActualHours float64
	Utilization float64 // normalized to [0,1]

	ActualCost   decimal.Decimal
	DurationDays float64

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
