package models

import (
	"time"
)

// User is the local account record for an identity issued by the auth service.
// TotalEarnings is only ever credited by the approval engine.
type User struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"` // identity from the auth service
	Name          string    `gorm:"not null;default:''" json:"name"`
	Email         string    `gorm:"index" json:"email"`
	TotalEarnings float64   `gorm:"not null;default:0" json:"totalEarnings"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// UserSummary is the identity shown next to bugs and submissions.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WinnerSnapshot is returned by an approval so the caller can render the payout.
type WinnerSnapshot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TotalEarnings float64 `json:"totalEarnings"`
}

// UserProfile is the /users/me payload.
type UserProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	TotalEarnings float64   `json:"totalEarnings"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Snapshot() WinnerSnapshot {
	return WinnerSnapshot{ID: u.ID, Name: u.Name, Email: u.Email, TotalEarnings: u.TotalEarnings}
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		TotalEarnings: u.TotalEarnings,
		CreatedAt:     u.CreatedAt,
	}
}
