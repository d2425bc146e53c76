package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kabb-server/internal/domain"
	"kabb-server/internal/infrastructure/gateway"
	"kabb-server/internal/repo"
)

type ConfirmPaymentInput struct {
	OrderNumber string
	PaymentKey  string
	Amount      decimal.Decimal
}

// SettlementOutcome is what the caller gets back after a confirmation attempt
// reached a decision, whether the gateway settled or declined.
type SettlementOutcome struct {
	PaymentNumber string
	Status        domain.PaymentStatus
	PaymentMethod string
	OrderNumber   string
}

type PaymentService interface {
	Confirm(ctx context.Context, in ConfirmPaymentInput, actorID uuid.UUID, meta domain.RequestMeta) (*SettlementOutcome, error)
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error)
}

type paymentService struct {
	txRunner    repo.TxRunner
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	gateway     gateway.PaymentGateway
	audit       AuditRecorder
	orderLocks  *keyedMutex
}

func NewPaymentService(
	txRunner repo.TxRunner,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	gtw gateway.PaymentGateway,
	audit AuditRecorder,
) PaymentService {
	return &paymentService{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gtw,
		audit:       audit,
		orderLocks:  newKeyedMutex(),
	}
}

// Confirm runs the settlement state machine for one order:
// lookup, ownership check, exact-amount check, duplicate and state guards,
// gateway call,
// then an atomic (payment insert, order update) commit and an audit record.
//
// All validation happens before the gateway sees any traffic. A gateway
// decline is a normal outcome committed as a FAILED payment; only a transport
// failure is an error, and it leaves no payment row behind.
func (s *paymentService) Confirm(ctx context.Context, in ConfirmPaymentInput, actorID uuid.UUID, meta domain.RequestMeta) (*SettlementOutcome, error) {
	unlock := s.orderLocks.Lock(in.OrderNumber)
	defer unlock()

	order, err := s.orderRepo.FindByOrderNumber(ctx, in.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	if !order.TotalAmount.Equal(in.Amount) {
		return nil, domain.ErrAmountMismatch
	}

	prior, err := s.paymentRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.Status == domain.PaymentCompleted {
		// Already settled. Report the stored outcome instead of charging again.
		return outcomeOf(prior, order.OrderNumber), nil
	}
	// A prior FAILED attempt does not block a retry; the new row supersedes it.

	// CONFIRMED and CANCELED are terminal. Without a completed payment to
	// report there is nothing left to confirm.
	if order.Status != domain.OrderPending {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrInvalidState, order.OrderNumber, order.Status)
	}

	result, err := s.gateway.Confirm(ctx, in.PaymentKey, order.OrderNumber, order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("confirm %s: %w", order.OrderNumber, err)
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentNumber: domain.NewPaymentNumber(now),
		Amount:        order.TotalAmount,
		GatewayKey:    result.PaymentKey,
		Status:        domain.PaymentFailed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if result.Status == gateway.StatusDone {
		payment.Status = domain.PaymentCompleted
		payment.PaymentMethod = result.Method
		order.Status = domain.OrderConfirmed
	}
	order.UpdatedAt = now

	// The gateway has answered; a client disconnect must not abandon the
	// commit now, or we end up with charged money and no record of it.
	commitCtx := context.WithoutCancel(ctx)

	err = s.txRunner.InTx(commitCtx, func(tx repo.Tx) error {
		if err := s.paymentRepo.Create(commitCtx, tx, payment); err != nil {
			return err
		}
		return s.orderRepo.UpdateStatus(commitCtx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(commitCtx, domain.AuditConfirm, "PAYMENT", payment.ID,
		actorID, order.UserID,
		fmt.Sprintf("payment %s for order %s: %s", payment.PaymentNumber, order.OrderNumber, payment.Status),
		meta)

	return outcomeOf(payment, order.OrderNumber), nil
}

func (s *paymentService) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindByPaymentNumber(ctx, paymentNumber)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, nil
}

func outcomeOf(p *domain.Payment, orderNumber string) *SettlementOutcome {
	return &SettlementOutcome{
		PaymentNumber: p.PaymentNumber,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		OrderNumber:   orderNumber,
	}
}
