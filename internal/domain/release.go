package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Release struct {
	ID        string
	ProductID string
	Name      string
	State     GovernanceState
	LockInfo
	ApprovalStamps

	// Go/No-Go sub-workflow, orthogonal to the governance state. Submission
	// flips GoNogoSubmitted; the decision follows; only a GO decision permits
	// a subsequent lock.
	GoNogoSubmitted   bool
	GoNogoSubmittedAt *time.Time
	GoNogoSubmittedBy string
	GoNogoDecision    *GoNoGoDecision
	GoNogoDecidedAt   *time.Time
	GoNogoDecidedBy   string

	ActualCost      decimal.Decimal
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChecklistItem is one readiness line on a release.
type ChecklistItem struct {
	ID        string
	ReleaseID string
	Item      string
	Completed bool
	CreatedAt time.Time
}
