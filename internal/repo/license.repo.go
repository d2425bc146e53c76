package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
)

type LicenseRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.License, error)
	FindByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.License, error)
	Create(ctx context.Context, tx Tx, license *domain.License) error
	UpdateDecision(ctx context.Context, tx Tx, license *domain.License) error
}

type licenseRepo struct {
	db *sql.DB
}

func NewLicenseRepo(db *sql.DB) LicenseRepo {
	return &licenseRepo{db: db}
}

const licenseColumns = "id, user_id, file_name, stored_file_name, file_path, file_size, content_type, approval_status, rejection_reason, approved_by, approved_at, created_at, updated_at"

func (r *licenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.License, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+licenseColumns+" FROM licenses WHERE id = $1", id)

	var lic domain.License
	var approvedBy uuid.NullUUID
	var approvedAt sql.NullTime
	err := row.Scan(
		&lic.ID,
		&lic.UserID,
		&lic.FileName,
		&lic.StoredFileName,
		&lic.FilePath,
		&lic.FileSize,
		&lic.ContentType,
		&lic.ApprovalStatus,
		&lic.RejectionReason,
		&approvedBy,
		&approvedAt,
		&lic.CreatedAt,
		&lic.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		lic.ApprovedBy = approvedBy.UUID
	}
	if approvedAt.Valid {
		lic.ApprovedAt = &approvedAt.Time
	}
	return &lic, nil
}

func (r *licenseRepo) FindByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.License, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+licenseColumns+" FROM licenses WHERE approval_status = $1 ORDER BY created_at", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var licenses []domain.License
	for rows.Next() {
		var lic domain.License
		var approvedBy uuid.NullUUID
		var approvedAt sql.NullTime
		if err := rows.Scan(
			&lic.ID,
			&lic.UserID,
			&lic.FileName,
			&lic.StoredFileName,
			&lic.FilePath,
			&lic.FileSize,
			&lic.ContentType,
			&lic.ApprovalStatus,
			&lic.RejectionReason,
			&approvedBy,
			&approvedAt,
			&lic.CreatedAt,
			&lic.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if approvedBy.Valid {
			lic.ApprovedBy = approvedBy.UUID
		}
		if approvedAt.Valid {
			lic.ApprovedAt = &approvedAt.Time
		}
		licenses = append(licenses, lic)
	}
	return licenses, rows.Err()
}

func (r *licenseRepo) Create(ctx context.Context, tx Tx, license *domain.License) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO licenses (id, user_id, file_name, stored_file_name, file_path, file_size, content_type, approval_status, rejection_reason, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		license.ID, license.UserID, license.FileName, license.StoredFileName,
		license.FilePath, license.FileSize, license.ContentType,
		license.ApprovalStatus, license.RejectionReason, license.CreatedAt, license.UpdatedAt)
	return err
}

func (r *licenseRepo) UpdateDecision(ctx context.Context, tx Tx, license *domain.License) error {
	approvedBy := uuid.NullUUID{UUID: license.ApprovedBy, Valid: license.ApprovedBy != uuid.Nil}
	var approvedAt sql.NullTime
	if license.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *license.ApprovedAt, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE licenses SET approval_status = $1, rejection_reason = $2, approved_by = $3, approved_at = $4, updated_at = $5 WHERE id = $6",
		license.ApprovalStatus, license.RejectionReason, approvedBy, approvedAt,
		license.UpdatedAt, license.ID)
	return err
}
