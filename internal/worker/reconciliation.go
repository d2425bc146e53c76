package worker

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kabb-server/internal/domain"
	"kabb-server/internal/infrastructure/gateway"
	"kabb-server/internal/repo"
)

const stuckOrderBatch = 50

// ReconciliationWorker bounds the gateway-success/local-failure window. An
// order can be charged at the gateway and still sit PENDING here when the
// commit after the gateway answer never ran (crash, db outage). The worker
// periodically asks the gateway for the truth about stuck orders and repairs
// the local pair, or cancels orders the gateway never settled.
type ReconciliationWorker struct {
	txRunner    repo.TxRunner
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	gateway     gateway.PaymentGateway
	interval    time.Duration
	threshold   time.Duration
}

func NewReconciliationWorker(
	txRunner repo.TxRunner,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	gtw gateway.PaymentGateway,
	interval time.Duration,
	threshold time.Duration,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gtw,
		interval:    interval,
		threshold:   threshold,
	}
}

func (w *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Println("Reconciliation worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.process(ctx); err != nil {
				log.Printf("Reconciliation failed: %v", err)
			}
		}
	}
}

func (w *ReconciliationWorker) process(ctx context.Context) error {
	stuck, err := w.orderRepo.FindStuckPending(ctx, w.threshold, stuckOrderBatch)
	if err != nil {
		return err
	}

	for i := range stuck {
		if err := w.reconcile(ctx, &stuck[i]); err != nil {
			log.Printf("Failed to reconcile order %s: %v", stuck[i].OrderNumber, err)
		}
	}
	return nil
}

func (w *ReconciliationWorker) reconcile(ctx context.Context, order *domain.Order) error {
	result, err := w.gateway.Lookup(ctx, order.OrderNumber)
	if err != nil {
		return err // gateway unreachable, wait for the next sweep
	}

	if result != nil && result.Status == gateway.StatusDone {
		return w.repairSettled(ctx, order, result)
	}

	// Never settled at the gateway: cancel so the order stops looking alive.
	// The write is conditional on the order still being PENDING; a confirm
	// that settles it between our read and this update must win.
	order.Status = domain.OrderCanceled
	order.UpdatedAt = time.Now()
	return w.txRunner.InTx(ctx, func(tx repo.Tx) error {
		updated, err := w.orderRepo.UpdateStatusIfPending(ctx, tx, order)
		if err != nil {
			return err
		}
		if updated {
			log.Printf("Canceled abandoned order %s", order.OrderNumber)
		} else {
			log.Printf("Order %s settled while reconciling, leaving it", order.OrderNumber)
		}
		return nil
	})
}

// repairSettled writes the payment row the interrupted confirmation never
// committed and confirms the order with it.
func (w *ReconciliationWorker) repairSettled(ctx context.Context, order *domain.Order, result *gateway.ConfirmResult) error {
	prior, err := w.paymentRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	if prior != nil && prior.Status == domain.PaymentCompleted {
		// Payment row exists, only the order update is missing.
		log.Printf("Confirming order %s against existing payment %s", order.OrderNumber, prior.PaymentNumber)
		order.Status = domain.OrderConfirmed
		order.UpdatedAt = time.Now()
		return w.txRunner.InTx(ctx, func(tx repo.Tx) error {
			return w.orderRepo.UpdateStatus(ctx, tx, order)
		})
	}

	log.Printf("Found settled-but-pending order %s, repairing", order.OrderNumber)
	now := time.Now()
	payment := &domain.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentNumber: domain.NewPaymentNumber(now),
		Amount:        order.TotalAmount,
		PaymentMethod: result.Method,
		GatewayKey:    result.PaymentKey,
		Status:        domain.PaymentCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Status = domain.OrderConfirmed
	order.UpdatedAt = now

	return w.txRunner.InTx(ctx, func(tx repo.Tx) error {
		if err := w.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}
		return w.orderRepo.UpdateStatus(ctx, tx, order)
	})
}
