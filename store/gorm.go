package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bug-bounty-system/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GormStore) Migrate() error {
	if err := s.DB.AutoMigrate(
		&models.User{},
		&models.Bug{},
		&models.Submission{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpsertUserProfile never writes total_earnings on conflict.
func (s *GormStore) UpsertUserProfile(ctx context.Context, id, name, email string) (*models.User, error) {
	user := models.User{ID: id, Name: name, Email: email}
	var updates []string
	if name != "" {
		updates = append(updates, "name")
	}
	if email != "" {
		updates = append(updates, "email")
	}
	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}
	if len(updates) > 0 {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(append(updates, "updated_at")),
		}
	}
	db := s.DB.WithContext(ctx)
	if err := db.Clauses(onConflict).Create(&user).Error; err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *GormStore) CreditEarnings(ctx context.Context, userID string, amount float64) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_earnings": gorm.Expr("total_earnings + ?", amount),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --- bugs ---

func (s *GormStore) CreateBug(ctx context.Context, bug *models.Bug) error {
	return s.DB.WithContext(ctx).Create(bug).Error
}

func (s *GormStore) GetBug(ctx context.Context, id string) (*models.Bug, error) {
	var bug models.Bug
	if err := s.DB.WithContext(ctx).First(&bug, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &bug, nil
}

func (s *GormStore) LockBug(ctx context.Context, id string) (*models.Bug, error) {
	var bug models.Bug
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bug, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &bug, nil
}

func (s *GormStore) ListBugs(ctx context.Context) ([]models.Bug, error) {
	var bugs []models.Bug
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&bugs).Error; err != nil {
		return nil, err
	}
	return bugs, nil
}

func (s *GormStore) CloseBug(ctx context.Context, bugID, winnerID string) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.Bug{}).
		Where("id = ? AND status <> ?", bugID, models.BugStatusClosed).
		Updates(map[string]interface{}{
			"status":   models.BugStatusClosed,
			"winner":   winnerID,
			"rewarded": true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --- submissions ---

func (s *GormStore) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	return s.DB.WithContext(ctx).Create(submission).Error
}

func (s *GormStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.DB.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *GormStore) ListSubmissionsByBug(ctx context.Context, bugID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := s.DB.WithContext(ctx).
		Where("bug_id = ?", bugID).
		Order("created_at DESC").Order("id DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *GormStore) ApproveSubmission(ctx context.Context, id string) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ? AND status <> ?", id, models.SubmissionStatusApproved).
		Update("status", models.SubmissionStatusApproved)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) RejectPendingSiblings(ctx context.Context, bugID, exceptID string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Submission{}).
		Where("bug_id = ? AND id <> ? AND status = ?", bugID, exceptID, models.SubmissionStatusPending).
		Update("status", models.SubmissionStatusRejected)
	return res.RowsAffected, res.Error
}
