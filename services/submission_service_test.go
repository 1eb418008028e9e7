package services

import (
	"testing"

	"bug-bounty-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() SubmissionInput {
	return SubmissionInput{
		SolutionDescription: "sanitize the input",
		ProofURL:            "https://example.com/video.mp4",
		ProofType:           models.ProofTypeVideo,
	}
}

func TestCreateSubmission(t *testing.T) {
	f := newFixture(t)
	f.user(t, "owner", 0)
	f.user(t, "hunter", 0)
	bug := f.bug(t, "owner", 100)

	name := "  poc.mp4 "
	in := validSubmission()
	in.ProofFileName = &name

	view, err := NewSubmissionService(f.store).CreateSubmission(f.ctx, "hunter", bug.ID, in)
	require.NoError(t, err)

	assert.Equal(t, bug.ID, view.BugID)
	assert.Equal(t, "hunter", view.SubmittedBy)
	assert.Equal(t, models.SubmissionStatusPending, view.Status)
	assert.Equal(t, models.ProofTypeVideo, view.ProofType)
	require.NotNil(t, view.ProofFileName)
	assert.Equal(t, "poc.mp4", *view.ProofFileName)
	require.NotNil(t, view.Author)
	assert.Equal(t, "hunter name", view.Author.Name)

	storedBug, err := f.store.GetBug(f.ctx, bug.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BugStatusOpen, storedBug.Status, "submitting does not move the bug")
}

func TestCreateSubmission_DefaultsToURLProof(t *testing.T) {
	f := newFixture(t)
	bug := f.bug(t, "owner", 100)

	in := validSubmission()
	in.ProofType = ""
	view, err := NewSubmissionService(f.store).CreateSubmission(f.ctx, "hunter", bug.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.ProofTypeURL, view.ProofType)
	assert.Nil(t, view.ProofFileName)
}

func TestCreateSubmission_Errors(t *testing.T) {
	f := newFixture(t)
	open := f.bug(t, "owner", 100)
	closed := f.bug(t, "owner", 100)
	_, err := f.store.CloseBug(f.ctx, closed.ID, "someone")
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   string
		bugID   string
		mutate  func(*SubmissionInput)
		kind    models.ErrorKind
		message string
	}{
		{"missing description", "hunter", open.ID, func(in *SubmissionInput) { in.SolutionDescription = " " }, models.KindValidation, "Please provide solution description"},
		{"missing proof", "hunter", open.ID, func(in *SubmissionInput) { in.ProofURL = "" }, models.KindValidation, "Please provide proof (image link, video link, file, or URL)"},
		{"bad proof type", "hunter", open.ID, func(in *SubmissionInput) { in.ProofType = "gif" }, models.KindValidation, ""},
		{"validation before lookup", "hunter", uuid.NewString(), func(in *SubmissionInput) { in.SolutionDescription = "" }, models.KindValidation, "Please provide solution description"},
		{"unknown bug", "hunter", uuid.NewString(), nil, models.KindNotFound, "Bug not found"},
		{"malformed bug id", "hunter", "123", nil, models.KindNotFound, "Bug not found"},
		{"closed bug", "hunter", closed.ID, nil, models.KindInvalidState, "Cannot submit solution to a closed bug"},
		{"closed wins over ownership", "owner", closed.ID, nil, models.KindInvalidState, "Cannot submit solution to a closed bug"},
		{"own bug", "owner", open.ID, nil, models.KindForbidden, "Bug creator cannot submit solution to their own bug"},
	}

	svc := NewSubmissionService(f.store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			_, err := svc.CreateSubmission(f.ctx, tt.actor, tt.bugID, in)
			requireKind(t, err, tt.kind, tt.message)
		})
	}

	subs, err := f.store.ListSubmissionsByBug(f.ctx, open.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestListSubmissions(t *testing.T) {
	f := newFixture(t)
	bug := f.bug(t, "owner", 100)
	a := f.submission(t, bug.ID, "a")
	b := f.submission(t, bug.ID, "b")
	f.submission(t, f.bug(t, "owner", 5).ID, "c")

	svc := NewSubmissionService(f.store)
	subs, err := svc.ListSubmissions(f.ctx, bug.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, b.ID, subs[0].ID)
	assert.Equal(t, a.ID, subs[1].ID)
	require.NotNil(t, subs[0].Author)
	assert.Equal(t, "b", subs[0].Author.ID)

	_, err = svc.ListSubmissions(f.ctx, uuid.NewString())
	requireKind(t, err, models.KindNotFound, "Bug not found")
}
