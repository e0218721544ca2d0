package service

import (
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
)

// applyTransition writes the side effects of an already-validated governance
// edge: the actor/timestamp stamp for the edge, the rejection reason, and
// the lock flag mirror. Stamps are additive; nothing is cleared
// retroactively except the lock flag on unlock.
func applyTransition(
	from, target domain.GovernanceState,
	stamps *domain.ApprovalStamps,
	lock *domain.LockInfo,
	rejectionReason *string,
	actor string,
	reason string,
	now time.Time,
) error {
	switch target {
	case domain.StateSubmitted:
		stamps.SubmittedAt = timePtr(now)
		stamps.SubmittedBy = actor

	case domain.StateApproved:
		if from == domain.StateLocked {
			// Unlock: restore APPROVED without re-stamping the approval.
			lock.Locked = false
			lock.LockedBy = ""
			lock.LockedAt = nil
			return nil
		}
		stamps.ApprovedAt = timePtr(now)
		stamps.ApprovedBy = actor

	case domain.StateRejected:
		if reason == "" {
			return apperr.Validation("rejection requires a non-empty reason")
		}
		stamps.RejectedAt = timePtr(now)
		stamps.RejectedBy = actor
		*rejectionReason = reason

	case domain.StateLocked:
		lock.Locked = true
		lock.LockedBy = actor
		lock.LockedAt = timePtr(now)

	case domain.StateArchived:
		stamps.ArchivedAt = timePtr(now)
		stamps.ArchivedBy = actor
	}
	return nil
}
