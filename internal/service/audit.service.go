package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
	"kabb-server/internal/repo"
)

// AuditRecorder appends an immutable record of an action. Recording is
// best-effort: a failed append is logged, never propagated, so it can never
// roll back the transition it describes.
type AuditRecorder interface {
	Record(ctx context.Context, action domain.AuditActionType, resourceType string,
		resourceID, actorID, subjectID uuid.UUID, description string, meta domain.RequestMeta)
}

type auditService struct {
	audits repo.AuditLogRepo
}

func NewAuditService(audits repo.AuditLogRepo) AuditRecorder {
	return &auditService{audits: audits}
}

func (s *auditService) Record(ctx context.Context, action domain.AuditActionType, resourceType string,
	resourceID, actorID, subjectID uuid.UUID, description string, meta domain.RequestMeta) {

	entry := &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       actorID,
		TargetUserID: subjectID,
		ActionType:   action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		CreatedAt:    time.Now(),
	}

	if err := s.audits.Create(ctx, entry); err != nil {
		log.Printf("audit record failed (%s %s %s): %v", action, resourceType, resourceID, err)
	}
}
