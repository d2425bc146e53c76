package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kabb-server/internal/domain"
	"kabb-server/internal/repo"
)

type CreateOrderInput struct {
	OrderNumber string
	TotalAmount decimal.Decimal
}

type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput, userID uuid.UUID) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
}

type orderService struct {
	txRunner  repo.TxRunner
	orderRepo repo.OrderRepo
}

func NewOrderService(txRunner repo.TxRunner, orderRepo repo.OrderRepo) OrderService {
	return &orderService{txRunner: txRunner, orderRepo: orderRepo}
}

func (s *orderService) Create(ctx context.Context, in CreateOrderInput, userID uuid.UUID) (*domain.Order, error) {
	orderNumber := strings.TrimSpace(in.OrderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", domain.ErrValidation)
	}
	if in.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total amount must be positive", domain.ErrValidation)
	}

	existing, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: order number already used", domain.ErrValidation)
	}

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: orderNumber,
		TotalAmount: in.TotalAmount.Round(2),
		Status:      domain.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txRunner.InTx(ctx, func(tx repo.Tx) error {
		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderService) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}
