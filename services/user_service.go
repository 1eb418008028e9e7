// services/user_service.go
package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"bug-bounty-system/models"
	"bug-bounty-system/store"
)

type UserService struct {
	Store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{Store: s}
}

// EnsureUser creates the account on first sight of an identity (earnings start at 0)
// and fills in name/email when they become known. Idempotent.
func (s *UserService) EnsureUser(ctx context.Context, id, name, email string) (*models.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, models.NewValidationError("user id is required")
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	existing, err := s.Store.GetUser(ctx, id)
	if err == nil {
		if (name == "" || name == existing.Name) && (email == "" || email == existing.Email) {
			return existing, nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, models.NewInternalError("failed to load user", err)
	}

	user, err := s.Store.UpsertUserProfile(ctx, id, name, email)
	if err != nil {
		log.Printf("[USERS] DB error ensuring user %s: %v", id, err)
		return nil, models.NewInternalError("failed to create user", err)
	}
	if existing == nil {
		log.Printf("[USERS] created account %s", id)
	}
	return user, nil
}

// GetProfile returns the caller's profile including their earnings.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := s.Store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError("User not found")
		}
		return nil, models.NewInternalError("Server error fetching user profile", err)
	}
	profile := user.Profile()
	return &profile, nil
}
