package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabb-server/internal/domain"
)

type licenseFixture struct {
	licenses *fakeLicenseRepo
	users    *fakeUserRepo
	audit    *fakeAudit
	service  LicenseService
	license  *domain.License
	user     *domain.User
	admin    uuid.UUID
}

func newLicenseFixture(t *testing.T) *licenseFixture {
	t.Helper()

	f := &licenseFixture{
		licenses: newFakeLicenseRepo(),
		users:    newFakeUserRepo(),
		audit:    &fakeAudit{},
		admin:    uuid.New(),
	}
	f.service = NewLicenseService(&fakeTxRunner{}, f.licenses, f.users, f.audit)

	now := time.Now()
	f.user = &domain.User{
		ID:             uuid.New(),
		Email:          "vet@example.com",
		Name:           "Test Vet",
		Role:           domain.RoleUser,
		ApprovalStatus: domain.ApprovalPending,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.users.put(f.user)

	f.license = &domain.License{
		ID:             uuid.New(),
		UserID:         f.user.ID,
		FileName:       "license.pdf",
		ApprovalStatus: domain.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.licenses.put(f.license)
	return f
}

func TestApproveLicense(t *testing.T) {
	f := newLicenseFixture(t)

	outcome, err := f.service.Approve(context.Background(), f.license.ID, f.admin, domain.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalApproved, outcome.ApprovalStatus)
	assert.NotNil(t, outcome.ApprovedAt)

	license, _ := f.licenses.FindByID(context.Background(), f.license.ID)
	user, _ := f.users.FindByID(context.Background(), f.user.ID)
	assert.Equal(t, domain.ApprovalApproved, license.ApprovalStatus)
	assert.Equal(t, domain.ApprovalApproved, user.ApprovalStatus,
		"license and owner must carry congruent status")
	assert.Equal(t, f.admin, license.ApprovedBy)
	assert.Empty(t, license.RejectionReason)

	require.Equal(t, 1, f.audit.count())
	assert.Equal(t, domain.AuditApprove, f.audit.records[0].action)
	assert.Equal(t, f.user.ID, f.audit.records[0].subjectID)
}

func TestApproveFailsWhenAlreadyDecided(t *testing.T) {
	f := newLicenseFixture(t)

	_, err := f.service.Approve(context.Background(), f.license.ID, f.admin, domain.RequestMeta{})
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), f.license.ID, f.admin, domain.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.service.Reject(context.Background(), f.license.ID, f.admin, "too late", domain.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "terminal states permit no further transition")
}

func TestApproveFailsWhenLicenseMissing(t *testing.T) {
	f := newLicenseFixture(t)

	_, err := f.service.Approve(context.Background(), uuid.New(), f.admin, domain.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrLicenseNotFound)
}

func TestRejectLicense(t *testing.T) {
	f := newLicenseFixture(t)

	outcome, err := f.service.Reject(context.Background(), f.license.ID, f.admin, "document unreadable", domain.RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalRejected, outcome.ApprovalStatus)
	assert.Equal(t, "document unreadable", outcome.RejectionReason)

	license, _ := f.licenses.FindByID(context.Background(), f.license.ID)
	user, _ := f.users.FindByID(context.Background(), f.user.ID)
	assert.Equal(t, domain.ApprovalRejected, license.ApprovalStatus)
	assert.Equal(t, domain.ApprovalRejected, user.ApprovalStatus)

	require.Equal(t, 1, f.audit.count())
	assert.Equal(t, domain.AuditReject, f.audit.records[0].action)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newLicenseFixture(t)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := f.service.Reject(context.Background(), f.license.ID, f.admin, reason, domain.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	license, _ := f.licenses.FindByID(context.Background(), f.license.ID)
	assert.Equal(t, domain.ApprovalPending, license.ApprovalStatus, "failed rejection must not transition")
}

func TestPendingLicenses(t *testing.T) {
	f := newLicenseFixture(t)

	pending, err := f.service.PendingLicenses(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.license.ID, pending[0].ID)

	_, err = f.service.Approve(context.Background(), f.license.ID, f.admin, domain.RequestMeta{})
	require.NoError(t, err)

	pending, err = f.service.PendingLicenses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}
