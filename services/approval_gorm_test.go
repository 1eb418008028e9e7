package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"bug-bounty-system/models"
	"bug-bounty-system/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the concurrent approval race against Postgres, where only the row lock and the
// conditional updates keep the payout single. Skipped without TEST_DATABASE_URL.
func TestApprove_ConcurrentApprovalsPayOnce_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	st, err := store.OpenPostgres(dsn)
	require.NoError(t, err)
	ctx := context.Background()

	run := uuid.NewString()[:8]
	owner := "owner-" + run
	_, err = st.UpsertUserProfile(ctx, owner, "Owner", owner+"@example.com")
	require.NoError(t, err)

	bug := models.Bug{
		ID:           uuid.NewString(),
		Title:        "race",
		Description:  "concurrent approvals",
		BountyAmount: 300,
		Status:       models.BugStatusOpen,
		CreatedBy:    owner,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.CreateBug(ctx, &bug))

	const hunters = 8
	subs := make([]models.Submission, hunters)
	for i := range subs {
		hunter := "hunter-" + run + "-" + string(rune('a'+i))
		_, err := st.UpsertUserProfile(ctx, hunter, hunter, hunter+"@example.com")
		require.NoError(t, err)
		subs[i] = models.Submission{
			ID:                  uuid.NewString(),
			BugID:               bug.ID,
			SubmittedBy:         hunter,
			SolutionDescription: "fix",
			ProofType:           models.ProofTypeURL,
			ProofURL:            "https://example.com/poc",
			Status:              models.SubmissionStatusPending,
			CreatedAt:           time.Now().UTC(),
		}
		require.NoError(t, st.CreateSubmission(ctx, &subs[i]))
	}

	svc := NewApprovalService(st)
	errs := make([]error, hunters)
	var wg sync.WaitGroup
	for i := range subs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(ctx, owner, subs[i].ID)
		}(i)
	}
	wg.Wait()

	var successes int
	var paid float64
	for i, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, models.KindInvalidState, models.KindOf(err), err)
		}
		u, getErr := st.GetUser(ctx, subs[i].SubmittedBy)
		require.NoError(t, getErr)
		paid += u.TotalEarnings
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 300.0, paid)

	stored, err := st.GetBug(ctx, bug.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BugStatusClosed, stored.Status)

	all, err := st.ListSubmissionsByBug(ctx, bug.ID)
	require.NoError(t, err)
	var approved, pending int
	for _, s := range all {
		switch s.Status {
		case models.SubmissionStatusApproved:
			approved++
		case models.SubmissionStatusPending:
			pending++
		}
	}
	assert.Equal(t, 1, approved)
	assert.Zero(t, pending)
}
