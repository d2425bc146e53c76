package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"kabb-server/internal/domain"
)

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("kabb_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, testSchema)
	require.NoError(t, err)
	return db
}

const testSchema = `
CREATE TABLE users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	role TEXT NOT NULL,
	approval_status TEXT NOT NULL,
	registration_ip TEXT NOT NULL DEFAULT '',
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE orders (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	order_number TEXT NOT NULL UNIQUE,
	total_amount NUMERIC(12,2) NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE payments (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id),
	payment_number TEXT NOT NULL UNIQUE,
	amount NUMERIC(12,2) NOT NULL,
	payment_method TEXT NOT NULL DEFAULT '',
	gateway_key TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

func seedUser(t *testing.T, db *sql.DB, runner TxRunner) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:             uuid.New(),
		Email:          uuid.NewString() + "@example.com",
		Password:       "hash",
		Name:           "Repo Test",
		Phone:          "010-0000-0000",
		Role:           domain.RoleUser,
		ApprovalStatus: domain.ApprovalApproved,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	users := NewUserRepo(db)
	require.NoError(t, runner.InTx(context.Background(), func(tx Tx) error {
		return users.Create(context.Background(), tx, user)
	}))
	return user
}

func TestOrderAndPaymentRoundTrip(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	runner := NewTxRunner(db)
	orders := NewOrderRepo(db)
	payments := NewPaymentRepo(db)
	user := seedUser(t, db, runner)

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		OrderNumber: "ORD-IT-1",
		TotalAmount: decimal.RequireFromString("149.99"),
		Status:      domain.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, runner.InTx(ctx, func(tx Tx) error {
		return orders.Create(ctx, tx, order)
	}))

	found, err := orders.FindByOrderNumber(ctx, "ORD-IT-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)
	assert.True(t, found.TotalAmount.Equal(order.TotalAmount), "decimal amount must survive the round trip")
	assert.Equal(t, domain.OrderPending, found.Status)

	missing, err := orders.FindByOrderNumber(ctx, "ORD-nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// payment insert and order confirm in one transaction
	payment := &domain.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentNumber: "PAY-IT-1",
		Amount:        order.TotalAmount,
		PaymentMethod: "CARD",
		GatewayKey:    "pay-key-1",
		Status:        domain.PaymentCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Status = domain.OrderConfirmed
	order.UpdatedAt = time.Now()
	require.NoError(t, runner.InTx(ctx, func(tx Tx) error {
		if err := payments.Create(ctx, tx, payment); err != nil {
			return err
		}
		return orders.UpdateStatus(ctx, tx, order)
	}))

	latest, err := payments.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "PAY-IT-1", latest.PaymentNumber)

	byNumber, err := payments.FindByPaymentNumber(ctx, "PAY-IT-1")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, payment.ID, byNumber.ID)

	confirmed, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, confirmed.Status)

	// the conditional write must not touch a settled order
	stale := *confirmed
	stale.Status = domain.OrderCanceled
	err = runner.InTx(ctx, func(tx Tx) error {
		updated, err := orders.UpdateStatusIfPending(ctx, tx, &stale)
		require.NoError(t, err)
		assert.False(t, updated)
		return nil
	})
	require.NoError(t, err)

	unchanged, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, unchanged.Status)
}

func TestTxRollbackLeavesNothing(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	runner := NewTxRunner(db)
	orders := NewOrderRepo(db)
	payments := NewPaymentRepo(db)
	user := seedUser(t, db, runner)

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		OrderNumber: "ORD-IT-2",
		TotalAmount: decimal.RequireFromString("10.00"),
		Status:      domain.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, runner.InTx(ctx, func(tx Tx) error {
		return orders.Create(ctx, tx, order)
	}))

	// second payment insert violates the unique payment_number and must roll
	// back the order update written before it
	order.Status = domain.OrderConfirmed
	err := runner.InTx(ctx, func(tx Tx) error {
		if err := orders.UpdateStatus(ctx, tx, order); err != nil {
			return err
		}
		p := &domain.Payment{
			ID: uuid.New(), OrderID: order.ID, PaymentNumber: "PAY-IT-DUP",
			Amount: order.TotalAmount, Status: domain.PaymentCompleted,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := payments.Create(ctx, tx, p); err != nil {
			return err
		}
		dup := *p
		dup.ID = uuid.New()
		return payments.Create(ctx, tx, &dup)
	})
	require.Error(t, err)

	fresh, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, fresh.Status, "partial commit must not be observable")

	payment, err := payments.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, payment)
}

func TestFindStuckPending(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	runner := NewTxRunner(db)
	orders := NewOrderRepo(db)
	user := seedUser(t, db, runner)

	old := time.Now().Add(-time.Hour)
	stuck := &domain.Order{
		ID: uuid.New(), UserID: user.ID, OrderNumber: "ORD-IT-STUCK",
		TotalAmount: decimal.New(5, 0), Status: domain.OrderPending,
		CreatedAt: old, UpdatedAt: old,
	}
	fresh := &domain.Order{
		ID: uuid.New(), UserID: user.ID, OrderNumber: "ORD-IT-FRESH",
		TotalAmount: decimal.New(5, 0), Status: domain.OrderPending,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, runner.InTx(ctx, func(tx Tx) error {
		if err := orders.Create(ctx, tx, stuck); err != nil {
			return err
		}
		return orders.Create(ctx, tx, fresh)
	}))

	found, err := orders.FindStuckPending(ctx, 10*time.Minute, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ORD-IT-STUCK", found[0].OrderNumber)
}
