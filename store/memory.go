package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"bug-bounty-system/models"
)

type memoryState struct {
	users       map[string]models.User
	bugs        map[string]models.Bug
	submissions map[string]models.Submission
	order       map[string]int64 // insertion sequence, tie-breaker for equal CreatedAt
	seq         int64
}

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		users:       make(map[string]models.User, len(st.users)),
		bugs:        make(map[string]models.Bug, len(st.bugs)),
		submissions: make(map[string]models.Submission, len(st.submissions)),
		order:       make(map[string]int64, len(st.order)),
		seq:         st.seq,
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.bugs {
		c.bugs[k] = copyBug(v)
	}
	for k, v := range st.submissions {
		c.submissions[k] = copySubmission(v)
	}
	for k, v := range st.order {
		c.order[k] = v
	}
	return c
}

// MemoryStore keeps everything in process. A transaction works on a snapshot that is
// swapped in on commit, so a failed unit of work leaves no trace.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memoryState
	inTx  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		state: &memoryState{
			users:       map[string]models.User{},
			bugs:        map[string]models.Bug{},
			submissions: map[string]models.Submission{},
			order:       map[string]int64{},
		},
	}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{mu: s.mu, state: s.state.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *MemoryStore) nextSeq(id string) {
	s.state.seq++
	s.state.order[id] = s.state.seq
}

// --- users ---

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	if _, ok := s.state.users[user.ID]; ok {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.state.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	defer s.lock()()
	u, ok := s.state.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	defer s.lock()()
	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.state.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *MemoryStore) UpsertUserProfile(ctx context.Context, id, name, email string) (*models.User, error) {
	defer s.lock()()
	now := time.Now().UTC()
	u, ok := s.state.users[id]
	if !ok {
		u = models.User{ID: id, CreatedAt: now}
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	u.UpdatedAt = now
	s.state.users[id] = u
	return &u, nil
}

func (s *MemoryStore) CreditEarnings(ctx context.Context, userID string, amount float64) (bool, error) {
	defer s.lock()()
	u, ok := s.state.users[userID]
	if !ok {
		return false, nil
	}
	u.TotalEarnings += amount
	u.UpdatedAt = time.Now().UTC()
	s.state.users[userID] = u
	return true, nil
}

// --- bugs ---

func (s *MemoryStore) CreateBug(ctx context.Context, bug *models.Bug) error {
	defer s.lock()()
	s.state.bugs[bug.ID] = copyBug(*bug)
	s.nextSeq(bug.ID)
	return nil
}

func (s *MemoryStore) GetBug(ctx context.Context, id string) (*models.Bug, error) {
	defer s.lock()()
	b, ok := s.state.bugs[id]
	if !ok {
		return nil, ErrNotFound
	}
	b = copyBug(b)
	return &b, nil
}

// LockBug is GetBug: the transaction already holds the store mutex.
func (s *MemoryStore) LockBug(ctx context.Context, id string) (*models.Bug, error) {
	return s.GetBug(ctx, id)
}

func (s *MemoryStore) ListBugs(ctx context.Context) ([]models.Bug, error) {
	defer s.lock()()
	bugs := make([]models.Bug, 0, len(s.state.bugs))
	for _, b := range s.state.bugs {
		bugs = append(bugs, copyBug(b))
	}
	sort.Slice(bugs, func(i, j int) bool {
		return s.newer(bugs[i].CreatedAt, bugs[i].ID, bugs[j].CreatedAt, bugs[j].ID)
	})
	return bugs, nil
}

func (s *MemoryStore) CloseBug(ctx context.Context, bugID, winnerID string) (bool, error) {
	defer s.lock()()
	b, ok := s.state.bugs[bugID]
	if !ok || b.Status == models.BugStatusClosed {
		return false, nil
	}
	winner := winnerID
	b.Status = models.BugStatusClosed
	b.Winner = &winner
	b.Rewarded = true
	s.state.bugs[bugID] = b
	return true, nil
}

// --- submissions ---

func (s *MemoryStore) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	defer s.lock()()
	s.state.submissions[submission.ID] = copySubmission(*submission)
	s.nextSeq(submission.ID)
	return nil
}

func (s *MemoryStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	defer s.lock()()
	sub, ok := s.state.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sub = copySubmission(sub)
	return &sub, nil
}

func (s *MemoryStore) ListSubmissionsByBug(ctx context.Context, bugID string) ([]models.Submission, error) {
	defer s.lock()()
	var subs []models.Submission
	for _, sub := range s.state.submissions {
		if sub.BugID == bugID {
			subs = append(subs, copySubmission(sub))
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		return s.newer(subs[i].CreatedAt, subs[i].ID, subs[j].CreatedAt, subs[j].ID)
	})
	return subs, nil
}

func (s *MemoryStore) ApproveSubmission(ctx context.Context, id string) (bool, error) {
	defer s.lock()()
	sub, ok := s.state.submissions[id]
	if !ok || sub.Status == models.SubmissionStatusApproved {
		return false, nil
	}
	sub.Status = models.SubmissionStatusApproved
	s.state.submissions[id] = sub
	return true, nil
}

func (s *MemoryStore) RejectPendingSiblings(ctx context.Context, bugID, exceptID string) (int64, error) {
	defer s.lock()()
	var n int64
	for id, sub := range s.state.submissions {
		if sub.BugID != bugID || id == exceptID || sub.Status != models.SubmissionStatusPending {
			continue
		}
		sub.Status = models.SubmissionStatusRejected
		s.state.submissions[id] = sub
		n++
	}
	return n, nil
}

// newer orders by CreatedAt descending, then by insertion order descending.
func (s *MemoryStore) newer(at time.Time, id string, otherAt time.Time, otherID string) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return s.state.order[id] > s.state.order[otherID]
}

func copyBug(b models.Bug) models.Bug {
	if b.Winner != nil {
		w := *b.Winner
		b.Winner = &w
	}
	return b
}

func copySubmission(sub models.Submission) models.Submission {
	if sub.ProofFileName != nil {
		name := *sub.ProofFileName
		sub.ProofFileName = &name
	}
	return sub
}
