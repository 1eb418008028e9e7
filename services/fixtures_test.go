package services

import (
	"context"
	"testing"
	"time"

	"bug-bounty-system/models"
	"bug-bounty-system/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx   context.Context
	store *store.MemoryStore
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		ctx:   context.Background(),
		store: store.NewMemoryStore(),
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) now() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fixture) user(t *testing.T, id string, earnings float64) models.User {
	t.Helper()
	u := models.User{ID: id, Name: id + " name", Email: id + "@example.com", TotalEarnings: earnings}
	require.NoError(t, f.store.CreateUser(f.ctx, &u))
	return u
}

func (f *fixture) bug(t *testing.T, owner string, bounty float64) models.Bug {
	t.Helper()
	b := models.Bug{
		ID:           uuid.NewString(),
		Title:        "XSS in search",
		Description:  "reflected input",
		BountyAmount: bounty,
		Status:       models.BugStatusOpen,
		CreatedBy:    owner,
		CreatedAt:    f.now(),
	}
	require.NoError(t, f.store.CreateBug(f.ctx, &b))
	return b
}

func (f *fixture) submission(t *testing.T, bugID, author string) models.Submission {
	t.Helper()
	sub := models.Submission{
		ID:                  uuid.NewString(),
		BugID:               bugID,
		SubmittedBy:         author,
		SolutionDescription: "escape the query param",
		ProofType:           models.ProofTypeURL,
		ProofURL:            "https://example.com/poc",
		Status:              models.SubmissionStatusPending,
		CreatedAt:           f.now(),
	}
	require.NoError(t, f.store.CreateSubmission(f.ctx, &sub))
	return sub
}

func requireKind(t *testing.T, err error, kind models.ErrorKind, message string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, models.KindOf(err))
	if message != "" {
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, message, appErr.Message)
	}
}
