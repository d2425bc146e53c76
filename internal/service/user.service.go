package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kabb-server/internal/auth"
	"kabb-server/internal/domain"
	"kabb-server/internal/repo"
	"kabb-server/internal/storage"
)

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Phone    string

	HospitalName    string
	HospitalAddress string
	HospitalPhone   string
	BusinessNumber  string

	LicenseFileName    string
	LicenseContentType string
	LicenseFile        io.Reader

	PrivacyPolicyAgreed  bool
	TermsOfServiceAgreed bool
	SensitiveInfoAgreed  bool
}

type LoginOutput struct {
	AccessToken    string
	UserID         uuid.UUID
	Name           string
	Role           domain.UserRole
	ApprovalStatus domain.ApprovalStatus
}

type UserService interface {
	SignUp(ctx context.Context, in SignUpInput, meta domain.RequestMeta) (*domain.User, error)
	Login(ctx context.Context, email, password string, meta domain.RequestMeta) (*LoginOutput, error)
}

type userService struct {
	txRunner      repo.TxRunner
	userRepo      repo.UserRepo
	hospitalRepo  repo.HospitalRepo
	licenseRepo   repo.LicenseRepo
	agreementRepo repo.AgreementRepo
	files         storage.FileStore
	tokens        *auth.TokenManager
	audit         AuditRecorder
}

func NewUserService(
	txRunner repo.TxRunner,
	userRepo repo.UserRepo,
	hospitalRepo repo.HospitalRepo,
	licenseRepo repo.LicenseRepo,
	agreementRepo repo.AgreementRepo,
	files storage.FileStore,
	tokens *auth.TokenManager,
	audit AuditRecorder,
) UserService {
	return &userService{
		txRunner:      txRunner,
		userRepo:      userRepo,
		hospitalRepo:  hospitalRepo,
		licenseRepo:   licenseRepo,
		agreementRepo: agreementRepo,
		files:         files,
		tokens:        tokens,
		audit:         audit,
	}
}

// SignUp registers a PENDING account: the user, its hospital, the uploaded
// license, and the consent records are created together. The account stays
// unusable until an admin decides the license.
func (s *userService) SignUp(ctx context.Context, in SignUpInput, meta domain.RequestMeta) (*domain.User, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}
	if in.LicenseFile == nil {
		return nil, fmt.Errorf("%w: license file is required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	stored, err := s.files.StoreLicenseFile(in.LicenseFileName, in.LicenseContentType, in.LicenseFile)
	if err != nil {
		return nil, fmt.Errorf("store license file: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:             uuid.New(),
		Email:          in.Email,
		Password:       string(hash),
		Name:           in.Name,
		Phone:          in.Phone,
		Role:           domain.RoleUser,
		ApprovalStatus: domain.ApprovalPending,
		RegistrationIP: meta.IPAddress,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	hospital := &domain.Hospital{
		ID:             uuid.New(),
		UserID:         user.ID,
		Name:           in.HospitalName,
		Address:        in.HospitalAddress,
		Phone:          in.HospitalPhone,
		BusinessNumber: in.BusinessNumber,
		CreatedAt:      now,
	}
	license := &domain.License{
		ID:             uuid.New(),
		UserID:         user.ID,
		FileName:       stored.OriginalFileName,
		StoredFileName: stored.StoredFileName,
		FilePath:       stored.FilePath,
		FileSize:       stored.FileSize,
		ContentType:    stored.ContentType,
		ApprovalStatus: domain.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.txRunner.InTx(ctx, func(tx repo.Tx) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}
		if err := s.hospitalRepo.Create(ctx, tx, hospital); err != nil {
			return err
		}
		if err := s.licenseRepo.Create(ctx, tx, license); err != nil {
			return err
		}
		for agreementType, agreed := range map[domain.AgreementType]bool{
			domain.AgreementPrivacyPolicy:  in.PrivacyPolicyAgreed,
			domain.AgreementTermsOfService: in.TermsOfServiceAgreed,
			domain.AgreementSensitiveInfo:  in.SensitiveInfoAgreed,
		} {
			if !agreed {
				continue
			}
			agreement := &domain.Agreement{
				ID:            uuid.New(),
				UserID:        user.ID,
				AgreementType: agreementType,
				Agreed:        true,
				AgreedIP:      meta.IPAddress,
				PolicyVersion: "v1.0",
				CreatedAt:     now,
			}
			if err := s.agreementRepo.Create(ctx, tx, agreement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditCreate, "USER", user.ID, user.ID, uuid.Nil,
		"sign up completed", meta)

	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string, meta domain.RequestMeta) (*LoginOutput, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrBadCredentials
	}
	if !user.Active {
		return nil, domain.ErrBadCredentials
	}
	if user.Role != domain.RoleAdmin && user.ApprovalStatus != domain.ApprovalApproved {
		return nil, domain.ErrNotApproved
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditLogin, "USER", user.ID, user.ID, uuid.Nil,
		"login", meta)

	return &LoginOutput{
		AccessToken:    token,
		UserID:         user.ID,
		Name:           user.Name,
		Role:           user.Role,
		ApprovalStatus: user.ApprovalStatus,
	}, nil
}
