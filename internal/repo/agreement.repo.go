package repo

import (
	"context"
	"database/sql"

	"kabb-server/internal/domain"
)

type AgreementRepo interface {
	Create(ctx context.Context, tx Tx, agreement *domain.Agreement) error
}

type agreementRepo struct {
	db *sql.DB
}

func NewAgreementRepo(db *sql.DB) AgreementRepo {
	return &agreementRepo{db: db}
}

func (r *agreementRepo) Create(ctx context.Context, tx Tx, agreement *domain.Agreement) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO agreements (id, user_id, agreement_type, agreed, agreed_ip, policy_version, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		agreement.ID, agreement.UserID, agreement.AgreementType, agreement.Agreed,
		agreement.AgreedIP, agreement.PolicyVersion, agreement.CreatedAt)
	return err
}
