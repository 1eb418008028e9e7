// services/bug_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"bug-bounty-system/models"
	"bug-bounty-system/store"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type BugService struct {
	Store store.Store
	Now   func() time.Time
}

func NewBugService(s store.Store) *BugService {
	return &BugService{Store: s, Now: func() time.Time { return time.Now().UTC() }}
}

// BugInput is the create-bug request body. BountyAmount is a pointer so that a missing
// amount and a zero amount produce different messages.
type BugInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	BountyAmount *float64 `json:"bountyAmount"`
}

// UnmarshalJSON accepts bountyAmount as a JSON number or a numeric string ("500").
// An empty string counts as missing.
func (in *BugInput) UnmarshalJSON(data []byte) error {
	type plain BugInput
	var raw struct {
		plain
		BountyAmount json.RawMessage `json:"bountyAmount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = BugInput(raw.plain)
	in.BountyAmount = nil

	v := bytes.TrimSpace(raw.BountyAmount)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	if v[0] != '"' {
		var n float64
		if err := json.Unmarshal(v, &n); err != nil {
			return err
		}
		in.BountyAmount = &n
		return nil
	}

	var str string
	if err := json.Unmarshal(v, &str); err != nil {
		return err
	}
	if str = strings.TrimSpace(str); str == "" {
		return nil
	}
	n, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("bountyAmount %q is not a number", str)
	}
	in.BountyAmount = &n
	return nil
}

// CreateBug validates the input and stores an Open bug owned by actorID.
func (s *BugService) CreateBug(ctx context.Context, actorID string, in BugInput) (*models.BugView, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" || description == "" || in.BountyAmount == nil {
		return nil, models.NewValidationError("Please provide title, description, and bounty amount")
	}
	if utf8.RuneCountInString(title) > models.MaxBugTitleLength {
		return nil, models.NewValidationError("Title cannot exceed 200 characters")
	}
	if *in.BountyAmount <= 0 {
		return nil, models.NewValidationError("Bounty amount must be greater than 0")
	}

	bug := &models.Bug{
		ID:           uuid.NewString(),
		Title:        title,
		Slug:         slug.Make(title),
		Description:  description,
		BountyAmount: *in.BountyAmount,
		Status:       models.BugStatusOpen,
		CreatedBy:    actorID,
		Rewarded:     false,
		CreatedAt:    s.Now(),
	}
	if err := s.Store.CreateBug(ctx, bug); err != nil {
		log.Printf("[BUGS] DB error creating bug: %v", err)
		return nil, models.NewInternalError("Server error creating bug", err)
	}

	views, err := s.viewBugs(ctx, []models.Bug{*bug})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListBugs returns every bug, newest first, with owner and winner resolved.
func (s *BugService) ListBugs(ctx context.Context) ([]models.BugView, error) {
	bugs, err := s.Store.ListBugs(ctx)
	if err != nil {
		log.Printf("[BUGS] DB error listing bugs: %v", err)
		return nil, models.NewInternalError("Server error fetching bugs", err)
	}
	return s.viewBugs(ctx, bugs)
}

// GetBug returns the bug with all of its submissions, newest first.
func (s *BugService) GetBug(ctx context.Context, id string) (*models.BugDetail, error) {
	bug, err := loadBug(ctx, s.Store, id)
	if err != nil {
		return nil, err
	}
	views, err := s.viewBugs(ctx, []models.Bug{*bug})
	if err != nil {
		return nil, err
	}
	subs, err := s.Store.ListSubmissionsByBug(ctx, bug.ID)
	if err != nil {
		return nil, models.NewInternalError("Server error fetching bug", err)
	}
	subViews, err := viewSubmissions(ctx, s.Store, subs)
	if err != nil {
		return nil, err
	}
	return &models.BugDetail{Bug: views[0], Submissions: subViews}, nil
}

func (s *BugService) viewBugs(ctx context.Context, bugs []models.Bug) ([]models.BugView, error) {
	var ids []string
	for _, b := range bugs {
		ids = append(ids, b.CreatedBy)
		if b.Winner != nil {
			ids = append(ids, *b.Winner)
		}
	}
	users, err := s.Store.GetUsers(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError("Server error resolving users", err)
	}

	views := make([]models.BugView, len(bugs))
	for i, b := range bugs {
		views[i] = models.BugView{Bug: b, Owner: summaryOf(users, b.CreatedBy)}
		if b.Winner != nil {
			views[i].WinnerUser = summaryOf(users, *b.Winner)
		}
	}
	return views, nil
}

// loadBug maps malformed ids and missing rows to the same NotFound.
// Any form uuid.Parse accepts (urn:uuid:, braces, upper case) is looked up canonically.
func loadBug(ctx context.Context, s store.Store, id string) (*models.Bug, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, models.NewNotFoundError("Bug not found")
	}
	// stores only understand the canonical form
	bug, err := s.GetBug(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError("Bug not found")
		}
		return nil, models.NewInternalError("Server error fetching bug", err)
	}
	return bug, nil
}

func viewSubmissions(ctx context.Context, s store.Store, subs []models.Submission) ([]models.SubmissionView, error) {
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.SubmittedBy)
	}
	users, err := s.GetUsers(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError("Server error resolving users", err)
	}
	views := make([]models.SubmissionView, len(subs))
	for i, sub := range subs {
		views[i] = models.SubmissionView{Submission: sub, Author: summaryOf(users, sub.SubmittedBy)}
	}
	return views, nil
}

func summaryOf(users map[string]models.User, id string) *models.UserSummary {
	u, ok := users[id]
	if !ok {
		return &models.UserSummary{ID: id}
	}
	sum := u.Summary()
	return &sum
}
