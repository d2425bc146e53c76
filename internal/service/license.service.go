package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
	"kabb-server/internal/repo"
)

// ApprovalOutcome reports a license decision together with the owning user,
// whose approval status always moves in the same transaction.
type ApprovalOutcome struct {
	LicenseID       uuid.UUID
	UserID          uuid.UUID
	ApprovalStatus  domain.ApprovalStatus
	RejectionReason string
	ApprovedAt      *time.Time
}

type LicenseService interface {
	PendingLicenses(ctx context.Context) ([]domain.License, error)
	Approve(ctx context.Context, licenseID, adminID uuid.UUID, meta domain.RequestMeta) (*ApprovalOutcome, error)
	Reject(ctx context.Context, licenseID, adminID uuid.UUID, reason string, meta domain.RequestMeta) (*ApprovalOutcome, error)
}

type licenseService struct {
	txRunner    repo.TxRunner
	licenseRepo repo.LicenseRepo
	userRepo    repo.UserRepo
	audit       AuditRecorder
}

func NewLicenseService(
	txRunner repo.TxRunner,
	licenseRepo repo.LicenseRepo,
	userRepo repo.UserRepo,
	audit AuditRecorder,
) LicenseService {
	return &licenseService{
		txRunner:    txRunner,
		licenseRepo: licenseRepo,
		userRepo:    userRepo,
		audit:       audit,
	}
}

func (s *licenseService) PendingLicenses(ctx context.Context) ([]domain.License, error) {
	return s.licenseRepo.FindByApprovalStatus(ctx, domain.ApprovalPending)
}

func (s *licenseService) Approve(ctx context.Context, licenseID, adminID uuid.UUID, meta domain.RequestMeta) (*ApprovalOutcome, error) {
	license, user, err := s.loadPending(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	license.ApprovalStatus = domain.ApprovalApproved
	license.ApprovedBy = adminID
	license.ApprovedAt = &now
	license.RejectionReason = ""
	license.UpdatedAt = now
	user.ApprovalStatus = domain.ApprovalApproved
	user.UpdatedAt = now

	if err := s.commitDecision(ctx, license, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditApprove, "LICENSE", license.ID, adminID, user.ID,
		"license approved", meta)

	return outcomeOfLicense(license), nil
}

func (s *licenseService) Reject(ctx context.Context, licenseID, adminID uuid.UUID, reason string, meta domain.RequestMeta) (*ApprovalOutcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}

	license, user, err := s.loadPending(ctx, licenseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	license.ApprovalStatus = domain.ApprovalRejected
	license.ApprovedBy = adminID
	license.ApprovedAt = &now
	license.RejectionReason = reason
	license.UpdatedAt = now
	user.ApprovalStatus = domain.ApprovalRejected
	user.UpdatedAt = now

	if err := s.commitDecision(ctx, license, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditReject, "LICENSE", license.ID, adminID, user.ID,
		"license rejected: "+reason, meta)

	return outcomeOfLicense(license), nil
}

// loadPending fetches the license and its owner, failing unless the license
// is still undecided. APPROVED and REJECTED are terminal.
func (s *licenseService) loadPending(ctx context.Context, licenseID uuid.UUID) (*domain.License, *domain.User, error) {
	license, err := s.licenseRepo.FindByID(ctx, licenseID)
	if err != nil {
		return nil, nil, err
	}
	if license == nil {
		return nil, nil, domain.ErrLicenseNotFound
	}
	if license.ApprovalStatus != domain.ApprovalPending {
		return nil, nil, fmt.Errorf("%w: license already decided (%s)", domain.ErrInvalidState, license.ApprovalStatus)
	}

	user, err := s.userRepo.FindByID(ctx, license.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	return license, user, nil
}

// commitDecision writes license and user together so the pair can never be
// observed with mismatched terminal statuses.
func (s *licenseService) commitDecision(ctx context.Context, license *domain.License, user *domain.User) error {
	return s.txRunner.InTx(ctx, func(tx repo.Tx) error {
		if err := s.licenseRepo.UpdateDecision(ctx, tx, license); err != nil {
			return err
		}
		return s.userRepo.UpdateApprovalStatus(ctx, tx, user)
	})
}

func outcomeOfLicense(license *domain.License) *ApprovalOutcome {
	return &ApprovalOutcome{
		LicenseID:       license.ID,
		UserID:          license.UserID,
		ApprovalStatus:  license.ApprovalStatus,
		RejectionReason: license.RejectionReason,
		ApprovedAt:      license.ApprovedAt,
	}
}
