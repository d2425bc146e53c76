package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
)

type UserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, tx Tx, user *domain.User) error
	UpdateApprovalStatus(ctx context.Context, tx Tx, user *domain.User) error
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepo {
	return &userRepo{db: db}
}

const userColumns = "id, email, password, name, phone, role, approval_status, registration_ip, active, created_at, updated_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.Name,
		&u.Phone,
		&u.Role,
		&u.ApprovalStatus,
		&u.RegistrationIP,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

func (r *userRepo) Create(ctx context.Context, tx Tx, user *domain.User) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password, name, phone, role, approval_status, registration_ip, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		user.ID, user.Email, user.Password, user.Name, user.Phone, user.Role,
		user.ApprovalStatus, user.RegistrationIP, user.Active, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *userRepo) UpdateApprovalStatus(ctx context.Context, tx Tx, user *domain.User) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET approval_status = $1, updated_at = $2 WHERE id = $3",
		user.ApprovalStatus, user.UpdatedAt, user.ID)
	return err
}
