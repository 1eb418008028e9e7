// Package store persists users, bugs and submissions.
package store

import (
	"context"
	"errors"

	"bug-bounty-system/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when creating a record whose id is taken.
var ErrAlreadyExists = errors.New("record already exists")

// Store is the persistence layer. The conditional writes (CloseBug, ApproveSubmission,
// CreditEarnings) report whether a row changed so callers can detect lost races.
type Store interface {
	// CreateUser inserts a new account; ErrAlreadyExists if the id is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, ids []string) (map[string]models.User, error)
	// UpsertUserProfile creates the account with zero earnings or refreshes name/email.
	UpsertUserProfile(ctx context.Context, id, name, email string) (*models.User, error)
	// CreditEarnings adds amount to the user's balance; false if the user does not exist.
	CreditEarnings(ctx context.Context, userID string, amount float64) (bool, error)

	CreateBug(ctx context.Context, bug *models.Bug) error
	GetBug(ctx context.Context, id string) (*models.Bug, error)
	// LockBug loads the bug and holds it for the rest of the enclosing transaction.
	LockBug(ctx context.Context, id string) (*models.Bug, error)
	ListBugs(ctx context.Context) ([]models.Bug, error)
	// CloseBug moves a not-yet-closed bug to Closed with the given winner; false if it was already closed.
	CloseBug(ctx context.Context, bugID, winnerID string) (bool, error)

	CreateSubmission(ctx context.Context, submission *models.Submission) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissionsByBug(ctx context.Context, bugID string) ([]models.Submission, error)
	// ApproveSubmission marks the submission Approved; false if it already was.
	ApproveSubmission(ctx context.Context, id string) (bool, error)
	// RejectPendingSiblings rejects every Pending submission of bugID except exceptID.
	RejectPendingSiblings(ctx context.Context, bugID, exceptID string) (int64, error)

	// Transaction runs fn against a transactional view; any error rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
