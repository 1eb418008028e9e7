package services

import (
	"context"
	"fmt"

	"bug-bounty-system/models"
	"bug-bounty-system/store"
)

// Violation is one broken bug/submission invariant found by the auditor.
type Violation struct {
	BugID  string `json:"bug_id"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("bug %s: %s", v.BugID, v.Reason)
}

// IntegrityAuditor re-checks the approval invariants over stored data. Read-only.
type IntegrityAuditor struct {
	Store store.Store
}

func NewIntegrityAuditor(s store.Store) *IntegrityAuditor {
	return &IntegrityAuditor{Store: s}
}

func (a *IntegrityAuditor) Audit(ctx context.Context) ([]Violation, error) {
	bugs, err := a.Store.ListBugs(ctx)
	if err != nil {
		return nil, err
	}

	var out []Violation
	for _, bug := range bugs {
		add := func(format string, args ...interface{}) {
			out = append(out, Violation{BugID: bug.ID, Reason: fmt.Sprintf(format, args...)})
		}

		closed := bug.IsClosed()
		if closed != (bug.Winner != nil) || closed != bug.Rewarded {
			add("status=%s winner_set=%t rewarded=%t disagree", bug.Status, bug.Winner != nil, bug.Rewarded)
		}

		subs, err := a.Store.ListSubmissionsByBug(ctx, bug.ID)
		if err != nil {
			return nil, err
		}
		var approved []models.Submission
		pending := 0
		for _, sub := range subs {
			switch sub.Status {
			case models.SubmissionStatusApproved:
				approved = append(approved, sub)
			case models.SubmissionStatusPending:
				pending++
			}
		}

		if len(approved) > 1 {
			add("%d approved submissions", len(approved))
		}
		if closed && pending > 0 {
			add("closed with %d pending submission(s)", pending)
		}
		if len(approved) == 1 && (bug.Winner == nil || *bug.Winner != approved[0].SubmittedBy) {
			add("approved submission %s author does not match winner", approved[0].ID)
		}
	}
	return out, nil
}
