package repo

import (
	"context"
	"database/sql"

	"kabb-server/internal/domain"

	"github.com/google/uuid"
)

type HospitalRepo interface {
	Create(ctx context.Context, tx Tx, hospital *domain.Hospital) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Hospital, error)
}

type hospitalRepo struct {
	db *sql.DB
}

func NewHospitalRepo(db *sql.DB) HospitalRepo {
	return &hospitalRepo{db: db}
}

func (r *hospitalRepo) Create(ctx context.Context, tx Tx, hospital *domain.Hospital) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO hospitals (id, user_id, name, address, phone, business_number, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		hospital.ID, hospital.UserID, hospital.Name, hospital.Address,
		hospital.Phone, hospital.BusinessNumber, hospital.CreatedAt)
	return err
}

func (r *hospitalRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Hospital, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, address, phone, business_number, created_at FROM hospitals WHERE user_id = $1",
		userID)

	var h domain.Hospital
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Address, &h.Phone, &h.BusinessNumber, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
