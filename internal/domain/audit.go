package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditActionType string

const (
	AuditCreate  AuditActionType = "CREATE"
	AuditConfirm AuditActionType = "CONFIRM"
	AuditApprove AuditActionType = "APPROVE"
	AuditReject  AuditActionType = "REJECT"
	AuditLogin   AuditActionType = "LOGIN"
)

type AuditLog struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	TargetUserID uuid.UUID
	ActionType   AuditActionType
	ResourceType string
	ResourceID   uuid.UUID
	Description  string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// RequestMeta carries the request attributes the audit trail wants. It is
// threaded explicitly from the handler instead of being read from any
// ambient request state.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
