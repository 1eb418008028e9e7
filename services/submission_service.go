// services/submission_service.go
package services

import (
	"context"
	"log"
	"strings"
	"time"

	"bug-bounty-system/models"
	"bug-bounty-system/store"

	"github.com/google/uuid"
)

type SubmissionService struct {
	Store store.Store
	Now   func() time.Time
}

func NewSubmissionService(s store.Store) *SubmissionService {
	return &SubmissionService{Store: s, Now: func() time.Time { return time.Now().UTC() }}
}

// SubmissionInput is the create-submission request body.
type SubmissionInput struct {
	SolutionDescription string           `json:"solutionDescription"`
	ProofURL            string           `json:"proofUrl"`
	ProofType           models.ProofType `json:"proofType"`
	ProofFileName       *string          `json:"proofFileName"`
}

// CreateSubmission stores a Pending submission by actorID for bugID.
// Checks run in a fixed order and the first failure is returned.
func (s *SubmissionService) CreateSubmission(ctx context.Context, actorID, bugID string, in SubmissionInput) (*models.SubmissionView, error) {
	description := strings.TrimSpace(in.SolutionDescription)
	proof := strings.TrimSpace(in.ProofURL)

	if description == "" {
		return nil, models.NewValidationError("Please provide solution description")
	}
	if proof == "" {
		return nil, models.NewValidationError("Please provide proof (image link, video link, file, or URL)")
	}
	proofType := in.ProofType
	if proofType == "" {
		proofType = models.ProofTypeURL
	}
	if !proofType.Valid() {
		return nil, models.NewValidationError("Proof type must be one of image, video, file or url")
	}

	bug, err := loadBug(ctx, s.Store, bugID)
	if err != nil {
		return nil, err
	}
	if bug.IsClosed() {
		return nil, models.NewInvalidStateError("Cannot submit solution to a closed bug")
	}
	if bug.CreatedBy == actorID {
		return nil, models.NewForbiddenError("Bug creator cannot submit solution to their own bug")
	}

	var fileName *string
	if in.ProofFileName != nil && strings.TrimSpace(*in.ProofFileName) != "" {
		name := strings.TrimSpace(*in.ProofFileName)
		fileName = &name
	}

	sub := &models.Submission{
		ID:                  uuid.NewString(),
		BugID:               bug.ID,
		SubmittedBy:         actorID,
		SolutionDescription: description,
		ProofType:           proofType,
		ProofURL:            proof,
		ProofFileName:       fileName,
		Status:              models.SubmissionStatusPending,
		CreatedAt:           s.Now(),
	}
	if err := s.Store.CreateSubmission(ctx, sub); err != nil {
		log.Printf("[SUBMISSIONS] DB error creating submission for bug %s: %v", bug.ID, err)
		return nil, models.NewInternalError("Server error creating submission", err)
	}

	views, err := viewSubmissions(ctx, s.Store, []models.Submission{*sub})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListSubmissions returns the bug's submissions, newest first.
func (s *SubmissionService) ListSubmissions(ctx context.Context, bugID string) ([]models.SubmissionView, error) {
	bug, err := loadBug(ctx, s.Store, bugID)
	if err != nil {
		return nil, err
	}
	subs, err := s.Store.ListSubmissionsByBug(ctx, bug.ID)
	if err != nil {
		return nil, models.NewInternalError("Server error fetching submissions", err)
	}
	return viewSubmissions(ctx, s.Store, subs)
}
