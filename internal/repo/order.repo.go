package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
)

type OrderRepo interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Create(ctx context.Context, tx Tx, order *domain.Order) error
	UpdateStatus(ctx context.Context, tx Tx, order *domain.Order) error
	UpdateStatusIfPending(ctx context.Context, tx Tx, order *domain.Order) (bool, error)
	FindStuckPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Order, error)
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = "id, user_id, order_number, total_amount, status, created_at, updated_at"

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.TotalAmount,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err // system error
	}
	return &order, nil
}

func (r *orderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE order_number = $1", orderNumber)
	return scanOrder(row)
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	return scanOrder(row)
}

func (r *orderRepo) Create(ctx context.Context, tx Tx, order *domain.Order) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO orders (id, user_id, order_number, total_amount, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		order.ID, order.UserID, order.OrderNumber, order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx Tx, order *domain.Order) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		order.Status, order.UpdatedAt, order.ID)
	return err
}

// UpdateStatusIfPending writes the status only while the row is still
// PENDING, so a transition raced by another writer is dropped instead of
// clobbering a terminal status. Reports whether the row was updated.
func (r *orderRepo) UpdateStatusIfPending(ctx context.Context, tx Tx, order *domain.Order) (bool, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4",
		order.Status, order.UpdatedAt, order.ID, domain.OrderPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *orderRepo) FindStuckPending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = $1 AND updated_at < $2 LIMIT $3",
		domain.OrderPending, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.TotalAmount,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
