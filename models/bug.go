// models/bug.go
package models

import (
	"time"
)

// BugStatus is the lifecycle state of a bug
type BugStatus string

const (
	BugStatusOpen     BugStatus = "Open"
	BugStatusInReview BugStatus = "In Review" // accepted on input, no transition leads here yet
	BugStatusClosed   BugStatus = "Closed"
)

const MaxBugTitleLength = 200

// Bug is a posted vulnerability/task carrying a bounty.
// Winner != nil <=> Status == Closed <=> Rewarded.
type Bug struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug         string    `gorm:"type:varchar(255);index" json:"slug"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	BountyAmount float64   `gorm:"not null;check:bounty_amount > 0" json:"bountyAmount"`
	Status       BugStatus `gorm:"type:varchar(16);not null;default:'Open';index:idx_bugs_status_created,priority:1" json:"status"`
	CreatedBy    string    `gorm:"type:varchar(64);not null;index" json:"createdBy"`
	Winner       *string   `gorm:"type:varchar(64)" json:"winner"`
	Rewarded     bool      `gorm:"not null;default:false" json:"rewarded"`
	CreatedAt    time.Time `gorm:"not null;index:idx_bugs_status_created,priority:2,sort:desc" json:"createdAt"`
}

func (b *Bug) IsClosed() bool {
	return b.Status == BugStatusClosed
}

// BugView is a bug with owner and winner identities resolved for display.
type BugView struct {
	Bug
	Owner      *UserSummary `json:"owner"`
	WinnerUser *UserSummary `json:"winnerUser,omitempty"`
}

// BugDetail is the single-bug payload: the bug plus its submissions, newest first.
type BugDetail struct {
	Bug         BugView          `json:"bug"`
	Submissions []SubmissionView `json:"submissions"`
}
