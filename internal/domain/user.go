package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

type User struct {
	ID             uuid.UUID
	Email          string
	Password       string // bcrypt hash
	Name           string
	Phone          string
	Role           UserRole
	ApprovalStatus ApprovalStatus
	RegistrationIP string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Hospital struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Address        string
	Phone          string
	BusinessNumber string
	CreatedAt      time.Time
}

type AgreementType string

const (
	AgreementPrivacyPolicy  AgreementType = "PRIVACY_POLICY"
	AgreementTermsOfService AgreementType = "TERMS_OF_SERVICE"
	AgreementSensitiveInfo  AgreementType = "SENSITIVE_INFO"
)

type Agreement struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AgreementType AgreementType
	Agreed        bool
	AgreedIP      string
	PolicyVersion string
	CreatedAt     time.Time
}
