// models/submission.go
package models

import (
	"time"
)

// SubmissionStatus is the lifecycle state of a submission. Approved and Rejected are terminal.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "Pending"
	SubmissionStatusApproved SubmissionStatus = "Approved"
	SubmissionStatusRejected SubmissionStatus = "Rejected"
)

// ProofType says how ProofURL should be read.
type ProofType string

const (
	ProofTypeImage ProofType = "image"
	ProofTypeVideo ProofType = "video"
	ProofTypeFile  ProofType = "file"
	ProofTypeURL   ProofType = "url"
)

func (p ProofType) Valid() bool {
	switch p {
	case ProofTypeImage, ProofTypeVideo, ProofTypeFile, ProofTypeURL:
		return true
	}
	return false
}

// Submission is a candidate fix plus proof, authored by someone other than the bug owner.
// The partial unique index keeps a second Approved row for the same bug out of the table.
type Submission struct {
	ID                  string           `gorm:"primaryKey;type:uuid" json:"id"`
	BugID               string           `gorm:"type:uuid;not null;index:idx_submissions_bug_status,priority:1;uniqueIndex:idx_submissions_one_winner,where:status = 'Approved'" json:"bugId"`
	SubmittedBy         string           `gorm:"type:varchar(64);not null;index" json:"submittedBy"`
	SolutionDescription string           `gorm:"type:text;not null" json:"solutionDescription"`
	ProofType           ProofType        `gorm:"type:varchar(8);not null;default:'url'" json:"proofType"`
	ProofURL            string           `gorm:"type:text;not null" json:"proofUrl"` // link or data URI
	ProofFileName       *string          `json:"proofFileName"`
	Status              SubmissionStatus `gorm:"type:varchar(16);not null;default:'Pending';index:idx_submissions_bug_status,priority:2" json:"status"`
	CreatedAt           time.Time        `gorm:"not null" json:"createdAt"`
}

// SubmissionView is a submission with its author resolved.
type SubmissionView struct {
	Submission
	Author *UserSummary `json:"author"`
}
