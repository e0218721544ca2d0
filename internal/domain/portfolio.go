package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStamps records who moved an entity through its governance workflow
// and when. Stamps are additive: a later rejection does not erase an earlier
// submission stamp.
type ApprovalStamps struct {
	SubmittedAt *time.Time
	SubmittedBy string
	ApprovedAt  *time.Time
	ApprovedBy  string
	RejectedAt  *time.Time
	RejectedBy  string
	ArchivedAt  *time.Time
	ArchivedBy  string
}

// LockInfo mirrors the LOCKED governance state onto a boolean flag with
// actor/time stamps. Edit paths check Locked before any permission logic.
type LockInfo struct {
	Locked   bool
	LockedBy string
	LockedAt *time.Time
}

type Portfolio struct {
	ID    string
	Code  string
	Name  string
	State GovernanceState
	LockInfo
	ApprovalStamps

	Priority        int
	ProgramManager  string // user id of the owning program manager
	EstimatedBudget decimal.Decimal
	ActualCost      decimal.Decimal
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}
