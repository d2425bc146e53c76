package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
)

type AuditLogRepo interface {
	// Create appends an audit row outside any caller transaction; the audit
	// trail must survive even when it races a rolled-back request.
	Create(ctx context.Context, entry *domain.AuditLog) error
}

type auditLogRepo struct {
	db *sql.DB
}

func NewAuditLogRepo(db *sql.DB) AuditLogRepo {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	userID := uuid.NullUUID{UUID: entry.UserID, Valid: entry.UserID != uuid.Nil}
	targetUserID := uuid.NullUUID{UUID: entry.TargetUserID, Valid: entry.TargetUserID != uuid.Nil}
	resourceID := uuid.NullUUID{UUID: entry.ResourceID, Valid: entry.ResourceID != uuid.Nil}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_logs (id, user_id, target_user_id, action_type, resource_type, resource_id, description, ip_address, user_agent, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		entry.ID, userID, targetUserID, entry.ActionType, entry.ResourceType,
		resourceID, entry.Description, entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	return err
}
