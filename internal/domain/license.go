package domain

import (
	"time"

	"github.com/google/uuid"
)

// License is the credential a user uploads at signup. Approving or rejecting
// it is a joint transition with the owning user: the two must never disagree
// on a terminal status.
type License struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	FileName        string
	StoredFileName  string
	FilePath        string
	FileSize        int64
	ContentType     string
	ApprovalStatus  ApprovalStatus
	RejectionReason string
	ApprovedBy      uuid.UUID
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
