// services/approval_service.go
package services

import (
	"context"
	"errors"
	"log"

	"bug-bounty-system/models"
	"bug-bounty-system/store"

	"github.com/google/uuid"
)

// ApprovalResult is what a successful approval hands back for rendering.
type ApprovalResult struct {
	Submission models.Submission     `json:"submission"`
	Bug        models.Bug            `json:"bug"`
	Winner     models.WinnerSnapshot `json:"winner"`
}

// ApprovalService picks the winning submission of a bug. The whole effect (approve,
// close, pay, reject siblings) commits as one transaction or not at all.
type ApprovalService struct {
	Store store.Store
}

func NewApprovalService(s store.Store) *ApprovalService {
	return &ApprovalService{Store: s}
}

// Approve makes submissionID the winner of its bug on behalf of actorID, the bug owner.
//
// The bug row is locked before the status checks and the close is a compare-and-swap,
// so of two concurrent approvals on one bug exactly one pays out; the other sees
// InvalidState. A winner account that cannot be found aborts everything with Internal.
func (s *ApprovalService) Approve(ctx context.Context, actorID, submissionID string) (*ApprovalResult, error) {
	parsed, err := uuid.Parse(submissionID)
	if err != nil {
		return nil, models.NewNotFoundError("Submission not found")
	}
	submissionID = parsed.String()

	var result ApprovalResult
	err = s.Store.Transaction(ctx, func(tx store.Store) error {
		sub, err := tx.GetSubmission(ctx, submissionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.NewNotFoundError("Submission not found")
			}
			return models.NewInternalError("Server error approving submission", err)
		}

		bug, err := tx.LockBug(ctx, sub.BugID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.NewNotFoundError("Bug not found")
			}
			return models.NewInternalError("Server error approving submission", err)
		}

		// re-read under the bug lock
		sub, err = tx.GetSubmission(ctx, submissionID)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}

		if bug.CreatedBy != actorID {
			return models.NewForbiddenError("Only bug creator can approve submissions")
		}
		if bug.IsClosed() {
			return models.NewInvalidStateError("Bug is already closed")
		}
		if sub.Status == models.SubmissionStatusApproved {
			return models.NewInvalidStateError("Submission is already approved")
		}

		approved, err := tx.ApproveSubmission(ctx, sub.ID)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}
		if !approved {
			return models.NewInvalidStateError("Submission is already approved")
		}

		closed, err := tx.CloseBug(ctx, bug.ID, sub.SubmittedBy)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}
		if !closed {
			return models.NewInvalidStateError("Bug is already closed")
		}

		credited, err := tx.CreditEarnings(ctx, sub.SubmittedBy, bug.BountyAmount)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}
		if !credited {
			log.Printf("[APPROVAL] ❌ winner account %s missing for bug %s, aborting", sub.SubmittedBy, bug.ID)
			return models.NewInternalError("Winner account not found", nil)
		}

		rejected, err := tx.RejectPendingSiblings(ctx, bug.ID, sub.ID)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}

		updatedSub, err := tx.GetSubmission(ctx, sub.ID)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}
		updatedBug, err := tx.GetBug(ctx, bug.ID)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}
		winner, err := tx.GetUser(ctx, sub.SubmittedBy)
		if err != nil {
			return models.NewInternalError("Server error approving submission", err)
		}

		result = ApprovalResult{
			Submission: *updatedSub,
			Bug:        *updatedBug,
			Winner:     winner.Snapshot(),
		}
		log.Printf("[APPROVAL] ✅ bug %s closed, submission %s approved, %s credited %.2f, %d sibling(s) rejected",
			bug.ID, sub.ID, winner.ID, bug.BountyAmount, rejected)
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError("Server error approving submission", err)
	}
	return &result, nil
}
