package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
)

type PaymentRepo interface {
	Create(ctx context.Context, tx Tx, payment *domain.Payment) error
	// FindByOrderID returns the most recent payment attempt for the order,
	// or nil when no attempt has been recorded.
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error)
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

const paymentColumns = "id, order_id, payment_number, amount, payment_method, gateway_key, status, created_at, updated_at"

func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.PaymentNumber,
		&p.Amount,
		&p.PaymentMethod,
		&p.GatewayKey,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) Create(ctx context.Context, tx Tx, payment *domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO payments (id, order_id, payment_number, amount, payment_method, gateway_key, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		payment.ID, payment.OrderID, payment.PaymentNumber, payment.Amount,
		payment.PaymentMethod, payment.GatewayKey, payment.Status,
		payment.CreatedAt, payment.UpdatedAt)
	return err
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1",
		orderID)
	return scanPayment(row)
}

func (r *paymentRepo) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE payment_number = $1", paymentNumber)
	return scanPayment(row)
}
